package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "nbd-crr/pkg/errors"
)

// CustomValidator - обертка для использования в Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator. Ошибки полей возвращаются
// как ValidationError с именами из json-тегов.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return apperrors.NewValidationError(fields)
}

func New() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	registerNullTypes(v)

	// Сервер не должен стартовать без своих правил.
	if err := registerRules(v); err != nil {
		panic("ошибка регистрации валидаторов: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "неверный формат email"
	case "priority":
		return "допустимо: High, Medium, Low"
	case "order_received_status":
		return "допустимо: YES, NO, HOLD"
	case "enquiry_no":
		return "номер заявки не может быть пустым или с пробелами по краям"
	case "oneof":
		return "допустимо: " + fe.Param()
	case "gt", "gte":
		return "значение должно быть больше " + fe.Param()
	case "min":
		return "минимум " + fe.Param()
	case "max":
		return "максимум " + fe.Param()
	case "datetime":
		return "ожидается дата в формате " + fe.Param()
	}
	return "неверное значение"
}
