package spectrum

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyInput        = errors.New("spectrum: empty input")
	ErrSignalTooShort    = errors.New("spectrum: signal too short for segment overlap")
	ErrInvalidSampleRate = errors.New("spectrum: invalid sample rate")
	ErrInvalidConfig     = errors.New("spectrum: invalid configuration")
)

func validateSampleRate(fs float64) error {
	if !(fs > 0) || math.IsInf(fs, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, fs)
	}

	return nil
}

func validateConfig(cfg WelchConfig) error {
	switch {
	case cfg.Segment <= 0:
		return fmt.Errorf("%w: segment length must be > 0: %d", ErrInvalidConfig, cfg.Segment)
	case cfg.Overlap < 0:
		return fmt.Errorf("%w: overlap must be >= 0: %d", ErrInvalidConfig, cfg.Overlap)
	case cfg.FFTSize <= 0 || cfg.FFTSize&(cfg.FFTSize-1) != 0:
		return fmt.Errorf("%w: fft size must be a power of two: %d", ErrInvalidConfig, cfg.FFTSize)
	case cfg.FFTSize < cfg.Segment:
		return fmt.Errorf("%w: fft size %d shorter than segment %d", ErrInvalidConfig, cfg.FFTSize, cfg.Segment)
	}

	return nil
}
