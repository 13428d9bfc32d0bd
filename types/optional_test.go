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

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionalHolder struct {
	URL Optional[string] `json:"url"`
}

func TestOptionalStates(t *testing.T) {
	var absent Optional[string]
	assert.False(t, absent.IsSet())
	assert.Nil(t, absent.Ptr())

	null := Null[string]()
	assert.True(t, null.IsSet())
	assert.True(t, null.IsNull())
	assert.Nil(t, null.Ptr())

	some := Some("x")
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, "x", *some.Ptr())
}

func TestOptionalUnmarshal(t *testing.T) {
	var h optionalHolder
	require.NoError(t, json.Unmarshal([]byte(`{}`), &h))
	assert.False(t, h.URL.IsSet())

	h = optionalHolder{}
	require.NoError(t, json.Unmarshal([]byte(`{"url":null}`), &h))
	assert.True(t, h.URL.IsNull())

	h = optionalHolder{}
	require.NoError(t, json.Unmarshal([]byte(`{"url":"https://a.b/c.png"}`), &h))
	v, ok := h.URL.Get()
	assert.True(t, ok)
	assert.Equal(t, "https://a.b/c.png", v)
}

func TestAttributesScan(t *testing.T) {
	var a Attributes
	require.NoError(t, a.Scan([]byte(`{"fire":3,"water":1.5}`)))
	assert.Equal(t, Attributes{"fire": 3, "water": 1.5}, a)

	require.NoError(t, a.Scan(`{"earth":2}`))
	assert.Equal(t, Attributes{"earth": 2}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	assert.Error(t, a.Scan(42))
}

func TestAttributesValue(t *testing.T) {
	v, err := Attributes{"fire": 3}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"fire":3}`, v.(string))

	v, err = Attributes(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}
