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
	"github.com/tomoncle/atelier/types"
)

// CardHandler serves /api/cards.
type CardHandler struct {
	service *service.CardService
}

func NewCardHandler(s *service.CardService) *CardHandler {
	return &CardHandler{service: s}
}

// Register registers the card routes.
func (h *CardHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List returns one page of cards filtered by cardType and search.
func (h *CardHandler) List(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	var filter model.CardFilter
	var cardType string
	if err := echo.QueryParamsBinder(c).
		String("cardType", &cardType).
		String("search", &filter.Search).
		BindError(); err != nil {
		return queryError(err)
	}
	filter.CardType = model.CardType(cardType)

	result, err := h.service.List(c.Request().Context(), page, filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, result)
}

func (h *CardHandler) Create(c echo.Context) error {
	var in model.CardInput
	if err := c.Bind(&in); err != nil {
		return bodyError(err)
	}
	card, err := h.service.Create(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, card)
}

func (h *CardHandler) Get(c echo.Context) error {
	card, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, card)
}

func (h *CardHandler) Update(c echo.Context) error {
	var patch model.CardPatch
	if err := c.Bind(&patch); err != nil {
		return bodyError(err)
	}
	card, err := h.service.Update(c.Request().Context(), c.Param("id"), &patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, card)
}

func (h *CardHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// pageRequest reads page and limit. Missing values take the defaults.
func pageRequest(c echo.Context) (types.PageRequest, error) {
	var page types.PageRequest
	if err := echo.QueryParamsBinder(c).
		Int("page", &page.Page).
		Int("limit", &page.Limit).
		BindError(); err != nil {
		return page, queryError(err)
	}
	return page, nil
}

func queryError(err error) error {
	field := ""
	if be, ok := err.(*echo.BindingError); ok {
		field = be.Field
	}
	return types.ValidationError([]types.FieldError{{Field: field, Message: "must be a number"}}, "invalid query parameter %s", field)
}

func bodyError(err error) error {
	return types.ValidationError(nil, "invalid request body: %v", err)
}
