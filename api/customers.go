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
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tomoncle/atelier/model"
	"github.com/tomoncle/atelier/service"
)

// CustomerHandler serves /api/customers.
type CustomerHandler struct {
	service *service.CustomerService
}

func NewCustomerHandler(s *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

// Register registers the customer routes.
func (h *CustomerHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List returns one page of customers filtered by difficulty and search.
func (h *CustomerHandler) List(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	var filter model.CustomerFilter
	if err := echo.QueryParamsBinder(c).
		Int("difficulty", &filter.Difficulty).
		String("search", &filter.Search).
		BindError(); err != nil {
		return queryError(err)
	}

	result, err := h.service.List(c.Request().Context(), page, filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, result)
}

func (h *CustomerHandler) Create(c echo.Context) error {
	var in model.CustomerInput
	if err := c.Bind(&in); err != nil {
		return bodyError(err)
	}
	customer, err := h.service.Create(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(c echo.Context) error {
	var patch model.CustomerPatch
	if err := c.Bind(&patch); err != nil {
		return bodyError(err)
	}
	customer, err := h.service.Update(c.Request().Context(), c.Param("id"), &patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
