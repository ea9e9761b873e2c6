package domain_test

import (
	"testing"
	"time"

	"github.com/roomledger/roomledger_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestPeriodOf(t *testing.T) {
	booked := time.Date(2025, 10, 16, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, domain.Period("2025-10"), domain.PeriodOf(booked))
}

func TestParsePeriod(t *testing.T) {
	p, err := domain.ParsePeriod("2025-01")
	assert.NoError(t, err)
	assert.Equal(t, domain.Period("2025-01"), p)

	_, err = domain.ParsePeriod("2025-13")
	assert.Error(t, err)

	_, err = domain.ParsePeriod("october")
	assert.Error(t, err)
}

func TestPeriod_NextPrev(t *testing.T) {
	p := domain.Period("2025-12")
	assert.Equal(t, domain.Period("2026-01"), p.Next())
	assert.Equal(t, domain.Period("2025-11"), p.Prev())
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), p.Start())
}
