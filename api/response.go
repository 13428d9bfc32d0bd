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

package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/atelier/types"
)

// DataResponse wraps a successful result.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps a failure.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, DataResponse{Data: data})
}

// StatusOf maps an error kind onto its HTTP status.
func StatusOf(kind types.ErrorKind) int {
	switch kind {
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindDuplicate, types.KindDependency:
		return http.StatusConflict
	case types.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders typed errors and echo errors in the error envelope.
// Unknown errors are logged and reported without their message.
func ErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := errorBody(err)
		entry := logger.WithError(err).WithField("status", status).WithField("code", body.Code)
		if status >= http.StatusInternalServerError {
			entry.Error("api is returning an error")
		} else {
			entry.Debug("api is returning an error")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, ErrorResponse{Error: body})
	}
}

func errorBody(err error) (int, ErrorBody) {
	var typed *types.Error
	if errors.As(err, &typed) {
		body := ErrorBody{Code: typed.Code, Message: typed.Message}
		switch {
		case len(typed.Dependencies) > 0:
			body.Details = typed.Dependencies
		case len(typed.Fields) > 0:
			body.Details = typed.Fields
		}
		status := StatusOf(typed.Kind)
		if status == http.StatusInternalServerError {
			body.Code = types.CodeInternal
			body.Message = http.StatusText(status)
		}
		return status, body
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		code := types.CodeInternal
		switch {
		case he.Code == http.StatusNotFound:
			code = types.CodeNotFound
		case he.Code >= 400 && he.Code < 500:
			code = types.CodeValidation
		}
		return he.Code, ErrorBody{Code: code, Message: message}
	}

	return http.StatusInternalServerError, ErrorBody{Code: types.CodeInternal, Message: http.StatusText(http.StatusInternalServerError)}
}
