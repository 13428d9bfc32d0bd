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

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlErrorByDriverCode(t *testing.T) {
	ok, kind := IsSqlError(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, ok)
	assert.Equal(t, DuplicateKeyErr, kind)

	ok, kind = IsSqlError(&pq.Error{Code: "23503"})
	assert.True(t, ok)
	assert.Equal(t, ForeignKeyViolationErr, kind)

	ok, kind = IsSqlError(&pq.Error{Code: "40001"})
	assert.True(t, ok)
	assert.Equal(t, UnknownErr, kind)
}

func TestIsSqlErrorByMessage(t *testing.T) {
	cases := map[string]SQLError{
		"constraint failed: UNIQUE constraint failed: cards.id (1555)": DuplicateKeyErr,
		"NOT NULL constraint failed: cards.name":                       NotNullViolationErr,
		"SQL logic error: no such table: cards (1)":                    NoTableErr,
		"index idx_cards_name already exists":                          ExistIndexErr,
	}
	for msg, want := range cases {
		ok, kind := IsSqlError(errors.New(msg))
		assert.True(t, ok, msg)
		assert.Equal(t, want, kind, msg)
	}

	ok, _ := IsSqlError(errors.New("connection refused"))
	assert.False(t, ok)
	ok, _ = IsSqlError(nil)
	assert.False(t, ok)
}

func TestIsSqlErrorNoRows(t *testing.T) {
	ok, kind := IsSqlError(fmt.Errorf("scan: %w", sql.ErrNoRows))
	assert.True(t, ok)
	assert.Equal(t, NoRowsErr, kind)
	assert.False(t, IsDuplicateKey(sql.ErrNoRows))
	assert.True(t, IsDuplicateKey(&pq.Error{Code: "23505"}))
}
