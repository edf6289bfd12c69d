package api

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/merrydance/logistics/val"
)

// registerCustomValidators 注册自定义验证器
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// [lon, lat] 坐标对
		v.RegisterValidation("lonlat", validLonLat)
		v.RegisterValidation("profilename", validProfileName)
	}
}

// validLonLat 验证 [lon, lat] 数组
var validLonLat validator.Func = func(fl validator.FieldLevel) bool {
	pair, ok := fl.Field().Interface().([]float64)
	if !ok || len(pair) != 2 {
		return false
	}
	return val.ValidateCoordinate(pair[1], pair[0]) == nil
}

var validProfileName validator.Func = func(fl validator.FieldLevel) bool {
	name, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return val.ValidateProfileName(name) == nil
}
