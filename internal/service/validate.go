package service

import (
	"errors"
	"time"
	"unicode"

	"github.com/dtroode/obituary-server/internal/model"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Field limits mirror the column sizes of the obituaries table.
const (
	maxFullNameLength  = 200
	maxBiographyLength = 5000
	maxSubmitterLength = 200
	minPasswordLength  = 8
	maxPasswordLength  = 100
)

const (
	msgDeathBeforeBirth   = "Date of death cannot be before date of birth."
	msgSubmitterRequired  = "Submitted By name is required for anonymous submissions."
	msgPasswordCharacters = "must contain an upper-case letter, a lower-case letter, a digit and a symbol"
)

type obituaryPayload struct {
	FullName        string    `json:"fullName"`
	DateOfBirth     time.Time `json:"dateOfBirth"`
	DateOfDeath     time.Time `json:"dateOfDeath"`
	Biography       string    `json:"biography"`
	SubmittedByName string    `json:"submittedByName"`
}

// validateObituary checks input. The submitter name is mandatory only for anonymous submissions.
func validateObituary(input model.ObituaryInput, anonymous bool) error {
	p := obituaryPayload(input)

	submitterRules := []validation.Rule{validation.RuneLength(0, maxSubmitterLength)}
	if anonymous {
		submitterRules = append([]validation.Rule{validation.Required.Error(msgSubmitterRequired)}, submitterRules...)
	}

	err := validation.ValidateStruct(&p,
		validation.Field(&p.FullName, validation.Required, validation.RuneLength(1, maxFullNameLength)),
		validation.Field(&p.DateOfBirth, validation.Required),
		validation.Field(&p.DateOfDeath, validation.Required, validation.By(notBefore(p.DateOfBirth))),
		validation.Field(&p.Biography, validation.Required, validation.RuneLength(1, maxBiographyLength)),
		validation.Field(&p.SubmittedByName, submitterRules...),
	)
	return toValidationError(err)
}

func notBefore(birth time.Time) validation.RuleFunc {
	return func(value interface{}) error {
		death, _ := value.(time.Time)
		if !birth.IsZero() && death.Before(birth) {
			return errors.New(msgDeathBeforeBirth)
		}
		return nil
	}
}

type registerPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func validateRegistration(params model.RegisterParams) error {
	p := registerPayload(params)

	err := validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Length(3, 256), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength), validation.By(strongPassword)),
		validation.Field(&p.FirstName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&p.LastName, validation.Required, validation.RuneLength(1, 100)),
	)
	return toValidationError(err)
}

func strongPassword(value interface{}) error {
	s, _ := value.(string)

	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return errors.New(msgPasswordCharacters)
	}
	return nil
}

// toValidationError converts ozzo field errors into the domain error type.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &model.ValidationError{}
	for field, fieldErr := range fieldErrs {
		if fieldErr != nil {
			verr.Add(field, fieldErr.Error())
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}
