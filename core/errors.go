// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrEmptyUsername indicates the Username field is blank.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrNegativeCount indicates a follower, view or video count below zero.
	ErrNegativeCount = errors.New("count cannot be negative")

	// ErrInvalidEngagementRate indicates an engagement rate outside 0-100.
	ErrInvalidEngagementRate = errors.New("engagement rate must be between 0 and 100")

	// ErrInvalidPlatform indicates an unknown platform name.
	ErrInvalidPlatform = errors.New("invalid platform")
)

// Search errors
var (
	// ErrInvalidFilterValue marks a filter value that was ignored.
	// It is never fatal to a search.
	ErrInvalidFilterValue = errors.New("invalid filter value")

	// ErrStoreUnavailable indicates the candidate store could not answer.
	ErrStoreUnavailable = errors.New("candidate store unavailable")
)

// ErrMalformedRecord indicates encoded record bytes could not be decoded.
var ErrMalformedRecord = errors.New("malformed record")
