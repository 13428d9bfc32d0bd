/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/types"
)

// Validator checks payload struct tags and reports failures as a
// validation error listing each field.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(optionalValue[string], types.Optional[string]{})
	v.RegisterCustomTypeFunc(optionalValue[model.CardRarity], types.Optional[model.CardRarity]{})
	_ = v.RegisterValidation("enum", validateEnum)
	return &Validator{validate: v}
}

// Struct validates s. Non-validation failures from the validator itself are
// returned unchanged.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]types.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, types.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return types.ValidationError(fields, "invalid input: %s", fields[0].Field)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "enum":
		return fmt.Sprintf("%v is not an allowed value", fe.Value())
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a UUID"
	default:
		return fmt.Sprintf("failed the %q rule", fe.Tag())
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// optionalValue exposes the wrapped value to the validator. Unset and null
// optionals validate as absent.
func optionalValue[T any](field reflect.Value) interface{} {
	o, ok := field.Interface().(types.Optional[T])
	if !ok {
		return nil
	}
	if v, valid := o.Get(); valid {
		return v
	}
	return nil
}

func validateEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(types.BaseEnum)
	return ok && e.IsValid()
}
