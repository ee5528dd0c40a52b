package tokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

const tokenBytes = appointment.TokenLength / 2

type AppointmentLookup interface {
	AppointmentByTokenHash(ctx context.Context, hash string) (*appointment.Appointment, error)
}

// Issuer mints and checks self-service management tokens.
type Issuer struct {
	lookup  AppointmentLookup
	clock   clock.Clock
	ttl     time.Duration
	entropy io.Reader
}

type Option func(*Issuer)

// WithEntropy replaces crypto/rand, for deterministic tests only.
func WithEntropy(r io.Reader) Option {
	return func(i *Issuer) { i.entropy = r }
}

func NewIssuer(lookup AppointmentLookup, clk clock.Clock, ttl time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		lookup:  lookup,
		clock:   clk,
		ttl:     ttl,
		entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue mints a fresh token for appointmentID valid for the configured TTL.
// Uniqueness is left to the store's unique index on the token hash.
func (i *Issuer) Issue(appointmentID uuid.UUID) (appointment.ManagementToken, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(i.entropy, buf); err != nil {
		return appointment.ManagementToken{}, errs.Mark(errs.Wrap(err, "read token entropy"), errs.ErrInternal)
	}

	expiresAt := i.clock.Now().Add(i.ttl)
	tok, err := appointment.NewManagementToken(hex.EncodeToString(buf), expiresAt)
	if err != nil {
		return appointment.ManagementToken{}, errs.Mark(err, errs.ErrInternal)
	}

	slog.Debug("management token issued", "appointment_id", appointmentID, "expires_at", expiresAt)
	return tok, nil
}

// Validate resolves raw to its appointment. Unknown, expired, cancelled and
// completed all yield errs.ErrNotFound so callers cannot tell them apart.
func (i *Issuer) Validate(ctx context.Context, raw string, now time.Time) (*appointment.Appointment, error) {
	if !appointment.IsWellFormedToken(raw) {
		return nil, errs.ErrNotFound
	}

	appt, err := i.lookup.AppointmentByTokenHash(ctx, appointment.HashToken(raw))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Mark(err, errs.ErrInternal)
	}

	if !appt.TokenUsableAt(now) {
		return nil, errs.ErrNotFound
	}
	return appt, nil
}
