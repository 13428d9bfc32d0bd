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

package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock hands out strictly increasing UTC timestamps at microsecond
// precision, the finest resolution every supported database keeps.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock returns a clock reading the system time.
func NewClock() *Clock {
	return NewClockFrom(time.Now)
}

// NewClockFrom returns a clock reading from now.
func NewClockFrom(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current time, bumped past the previous reading if needed.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}
