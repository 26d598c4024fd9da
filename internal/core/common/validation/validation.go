package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/budget-manager/internal"
)

const (
	DateLayout        = "2006-01-02"
	UsernameMaxLength = 150
	PasswordMinLength = 8
	CategoryMaxLength = 100
	AmountMaxPlaces   = 2
	AmountMaxDigits   = 8 // integer digits of numeric(10,2)
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+_-]+$`)
	amountCeiling   = decimal.New(1, AmountMaxDigits)
	fieldValidator  = validator.New()
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case []int64:
			if len(v) == 0 {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case nil:
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if utf8.RuneCountInString(v) < min {
				return fv.fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if utf8.RuneCountInString(v) > max {
				return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

// Email delegates the address grammar to go-playground/validator.
func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if err := fieldValidator.Var(v, "email"); err != nil {
				return fv.fail("Enter a valid email address", errors.ErrCodeInvalidEmail)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Username() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if !usernamePattern.MatchString(v) {
				return fv.fail("Username may contain only letters, numbers and @/./+/-/_ characters", errors.ErrCodeInvalidUsername)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(code errors.ErrorCode, allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of: %s", fv.FieldName, strings.Join(allowed, ", ")), code)
	})
	return fv
}

// Equals fails when the value differs from other. Used for password confirmation.
func (fv *FieldValidator) Equals(other string, message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != other {
			return fv.fail(message, code)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every field and reports the first failure of each field.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validate := range field.Validators {
			appErr := validate(field.Value)
			if appErr == nil {
				continue
			}
			if details := appErr.FieldErrors(); len(details) > 0 {
				validationErrors = append(validationErrors, details...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: appErr.Message,
					Code:    string(appErr.Code),
				})
			}
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// Merge combines several validation results into one error carrying all field details.
func Merge(errs ...*errors.AppError) *errors.AppError {
	var all []errors.ValidationError
	for _, e := range errs {
		if e == nil {
			continue
		}
		if details := e.FieldErrors(); len(details) > 0 {
			all = append(all, details...)
		} else {
			all = append(all, errors.ValidationError{Message: e.Message, Code: string(e.Code)})
		}
	}
	if len(all) == 0 {
		return nil
	}
	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: all})
}

// ParseAmount accepts a fixed-point decimal with at most two fractional digits
// and at most eight integer digits.
func ParseAmount(field, raw string) (decimal.Decimal, *errors.AppError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errors.NewValidationFieldError(field, fmt.Sprintf("%s is required", field), errors.ErrCodeValidationFailed)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.NewValidationFieldError(field, "A valid number is required", errors.ErrCodeInvalidAmount)
	}
	if amount.Exponent() < -AmountMaxPlaces {
		return decimal.Zero, errors.NewValidationFieldError(field,
			fmt.Sprintf("Ensure that there are no more than %d decimal places", AmountMaxPlaces), errors.ErrCodeInvalidAmount)
	}
	if amount.Abs().GreaterThanOrEqual(amountCeiling) {
		return decimal.Zero, errors.NewValidationFieldError(field,
			fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point", AmountMaxDigits), errors.ErrCodeInvalidAmount)
	}
	return amount, nil
}

// ParseDate accepts a YYYY-MM-DD calendar date and returns it at UTC midnight.
func ParseDate(field, raw string) (time.Time, *errors.AppError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.NewValidationFieldError(field, fmt.Sprintf("%s is required", field), errors.ErrCodeValidationFailed)
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, errors.NewValidationFieldError(field, "Date has wrong format. Use YYYY-MM-DD", errors.ErrCodeInvalidDate)
	}
	return date, nil
}

func ValidateCategoryName(name string) *errors.AppError {
	v := NewValidator()
	v.Field("name", name).
		Required().
		MaxLength(CategoryMaxLength)
	return v.Validate()
}

func ValidateUsername(username string) *errors.AppError {
	v := NewValidator()
	v.Field("username", username).
		Required().
		MaxLength(UsernameMaxLength).
		Username()
	return v.Validate()
}

func ValidateEmail(email string) *errors.AppError {
	v := NewValidator()
	v.Field("email", email).
		Required().
		Email()
	return v.Validate()
}

// ValidatePasswordPair checks a new password and its confirmation under the given field names.
func ValidatePasswordPair(field1, password1, field2, password2 string) *errors.AppError {
	v := NewValidator()
	v.Field(field1, password1).
		Required().
		MinLength(PasswordMinLength, errors.ErrCodeInvalidPassword)
	v.Field(field2, password2).
		Required().
		Equals(password1, "The two password fields didn't match", errors.ErrCodePasswordMismatch)
	return v.Validate()
}
