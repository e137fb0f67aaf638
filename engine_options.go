// SPDX-FileCopyrightText: 2026 The open-transport authors
// SPDX-License-Identifier: MIT

package rtx

import (
	"time"

	"github.com/pion/logging"
)

// Option configures an Engine at construction time.
type Option interface {
	apply(*Config) error
}

// optionFunc wraps a plain apply function.
type optionFunc func(*Config) error

func (o optionFunc) apply(c *Config) error { return o(c) }

// WithLoggerFactory sets the logger factory for the engine.
func WithLoggerFactory(loggerFactory logging.LoggerFactory) Option {
	return optionFunc(func(c *Config) error {
		if loggerFactory == nil {
			return errNilLoggerFactory
		}
		c.LoggerFactory = loggerFactory

		return nil
	})
}

// WithName sets the name tagging the engine's log lines.
func WithName(name string) Option {
	return optionFunc(func(c *Config) error {
		c.Name = name

		return nil
	})
}

// WithRTOMin sets the floor for the blended RTO estimate.
func WithRTOMin(d time.Duration) Option {
	return optionFunc(func(c *Config) error {
		if d <= 0 {
			return errInvalidRTOMin
		}
		c.RTOMin = d

		return nil
	})
}

// WithRTOMax sets the ceiling for the blended RTO estimate.
func WithRTOMax(d time.Duration) Option {
	return optionFunc(func(c *Config) error {
		if d <= 0 {
			return errInvalidRTOMax
		}
		c.RTOMax = d

		return nil
	})
}

// WithMinRTTWindow sets the span of the sliding window behind MinRTT.
func WithMinRTTWindow(d time.Duration) Option {
	return optionFunc(func(c *Config) error {
		if d <= 0 {
			return errInvalidMinRTTWindow
		}
		c.MinRTTWindow = d

		return nil
	})
}
