package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("priority", isPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("order_received_status", isOrderReceivedStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("enquiry_no", isEnquiryNo); err != nil {
		return err
	}
	return nil
}

// isPriority - High/Medium/Low без учёта регистра
func isPriority(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "high", "medium", "low":
		return true
	}
	return false
}

func isOrderReceivedStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "YES", "NO", "HOLD":
		return true
	}
	return false
}

// isEnquiryNo - непустой номер без пробелов по краям
func isEnquiryNo(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && strings.TrimSpace(s) == s
}
