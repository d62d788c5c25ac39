package handler

import (
	"sync"

	"opinai/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator engine.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			zap.L().Warn("gin validator engine is not go-playground, custom tags unavailable")
			return
		}
		err := v.RegisterValidation("questiontype", func(fl validator.FieldLevel) bool {
			return model.IsValidQuestionType(fl.Field().String())
		})
		if err != nil {
			zap.L().Error("failed to register questiontype validation", zap.Error(err))
		}
	})
}
