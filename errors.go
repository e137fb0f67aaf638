// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import (
	"errors"
)

var (
	errNilLoggerFactory = errors.New("loggerFactory must not be nil")

	// errNilEngine indicates a scheduler was built without an engine.
	errNilEngine = errors.New("engine must not be nil")

	// errNilTransmitFunc indicates a scheduler was built without a transmit callback.
	errNilTransmitFunc = errors.New("transmit func must not be nil")

	// errInvalidRTOMin indicates that the RTO floor was set to <= 0.
	errInvalidRTOMin = errors.New("RTO min was set to <= 0")

	// errInvalidRTOMax indicates that the RTO ceiling was set to <= 0.
	errInvalidRTOMax = errors.New("RTO max was set to <= 0")

	// errInvalidMinRTTWindow indicates that the sliding min-RTT window span was set to <= 0.
	errInvalidMinRTTWindow = errors.New("MinRTTWindow was set to <= 0")
)
