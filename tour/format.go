package tour

import (
	"strings"

	"github.com/merrydance/logistics/result"
	"github.com/merrydance/logistics/route"
)

// Formats requesting the assembled route without aggregation. osmsharp is
// the name existing clients send.
const (
	FormatFull     = "full"
	FormatOSMSharp = "osmsharp"
)

// Present returns the route as assembled for the full formats and its modal
// aggregation for any other format.
func Present(r *route.Route, format string) result.Result[*route.Route] {
	if strings.EqualFold(format, FormatFull) || strings.EqualFold(format, FormatOSMSharp) {
		return result.Ok(r)
	}
	aggregated, err := route.Aggregate(r)
	if err != nil {
		return result.Fail[*route.Route](NewError(KindAssembly, "Aggregating route failed.", err))
	}
	return result.Ok(aggregated)
}
