package val

import (
	"fmt"
	"math"
	"regexp"
)

var (
	isValidInstanceName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`).MatchString
	isValidProfileName  = regexp.MustCompile(`^[a-z]+(\.[a-z]+)?$`).MatchString
)

func ValidateString(value string, minLength int, maxLength int) error {
	n := len(value)
	if n < minLength || n > maxLength {
		return fmt.Errorf("must contain from %d-%d characters", minLength, maxLength)
	}
	return nil
}

// ValidateInstanceName 实例名称只能包含字母、数字、下划线、点和连字符
func ValidateInstanceName(value string) error {
	if err := ValidateString(value, 1, 64); err != nil {
		return err
	}
	if !isValidInstanceName(value) {
		return fmt.Errorf("must start with a letter or digit and contain only letters, digits, underscore, dot or dash")
	}
	return nil
}

// ValidateProfileName "vehicle" or "vehicle.metric"
func ValidateProfileName(value string) error {
	if err := ValidateString(value, 1, 64); err != nil {
		return err
	}
	if !isValidProfileName(value) {
		return fmt.Errorf("must be a vehicle name optionally followed by .metric")
	}
	return nil
}

func ValidateLatitude(value float64) error {
	if math.IsNaN(value) || value < -90 || value > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", value)
	}
	return nil
}

func ValidateLongitude(value float64) error {
	if math.IsNaN(value) || value < -180 || value > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", value)
	}
	return nil
}

// ValidateCoordinate 校验 WGS84 坐标
func ValidateCoordinate(lat, lon float64) error {
	if err := ValidateLatitude(lat); err != nil {
		return err
	}
	return ValidateLongitude(lon)
}
