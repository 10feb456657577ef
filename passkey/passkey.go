package passkey

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"aiqr-api/apperror"
	"aiqr-api/models"
	"aiqr-api/statemachine"
	"aiqr-api/store"
)

const (
	defaultMaxAttempts = 10

	invalidCombination = "Invalid Combination of PassKey & Contact, Please Contact Team"
	vendorExists       = "Vendor Already Exists"
	vendorRegistered   = "Vendor Already Exists, Please Login"
)

var (
	errExhausted = errors.New("passkey: no free passkey found")
	passkeySpace = big.NewInt(900000)
)

// Invite is what an authorizer supplies for a prospective vendor
type Invite struct {
	AuthorizerID  string
	VendorName    string
	VendorContact string
	VendorAddress string
}

// Provisioner issues one-time vendor passkeys and redeems them exactly once
type Provisioner struct {
	store       store.Store
	log         *slog.Logger
	draw        func() (string, error)
	maxAttempts int
	now         func() time.Time
}

type Option func(*Provisioner)

// WithDraw replaces the random passkey source
func WithDraw(draw func() (string, error)) Option {
	return func(p *Provisioner) { p.draw = draw }
}

// WithMaxAttempts bounds the collision redraw loop
func WithMaxAttempts(n int) Option {
	return func(p *Provisioner) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provisioner) { p.now = now }
}

func New(s store.Store, log *slog.Logger, opts ...Option) *Provisioner {
	p := &Provisioner{
		store:       s,
		log:         log,
		draw:        randomPasskey,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// randomPasskey draws a uniform 6-digit value in [100000, 999999]
func randomPasskey() (string, error) {
	n, err := rand.Int(rand.Reader, passkeySpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// CreateInvitation stores a new unused invitation under a passkey that no
// other unused invitation holds.
func (p *Provisioner) CreateInvitation(ctx context.Context, in Invite) (*models.Invitation, error) {
	contact := strings.TrimSpace(in.VendorContact)
	if err := p.ensureContactFree(ctx, contact); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		key, err := p.draw()
		if err != nil {
			return nil, apperror.Server("draw passkey", err)
		}
		taken, err := p.passkeyTaken(ctx, key)
		if err != nil {
			return nil, apperror.Database("probe passkey", err)
		}
		if taken {
			p.log.Debug("passkey collision, redrawing", "attempt", attempt)
			continue
		}

		inv := &models.Invitation{
			AuthorizerID:  in.AuthorizerID,
			VendorName:    strings.TrimSpace(in.VendorName),
			VendorContact: contact,
			VendorAddress: strings.TrimSpace(in.VendorAddress),
			Passkey:       key,
			Status:        models.InvitationUnused,
		}
		err = p.store.Create(ctx, store.Invitations, inv)
		if err == nil {
			p.log.Info("invitation created",
				"invitation_id", inv.ID,
				"authorizer_id", inv.AuthorizerID,
				"vendor_contact", inv.VendorContact,
			)
			return inv, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, apperror.Database("create invitation", err)
		}
		// Lost a race: either the passkey or the contact was taken between
		// the probe and the insert.
		if err := p.ensureContactFree(ctx, contact); err != nil {
			return nil, err
		}
	}

	p.log.Error("passkey space exhausted", "attempts", p.maxAttempts)
	return nil, apperror.Database("Failed to generate passkey", errExhausted)
}

func (p *Provisioner) ensureContactFree(ctx context.Context, contact string) error {
	var inv models.Invitation
	err := p.store.FindOne(ctx, store.Invitations,
		store.Match{"vendor_contact": contact, "status": models.InvitationUnused}, &inv, store.Only("id"))
	switch {
	case err == nil:
		p.log.Warn("vendor already invited", "vendor_contact", contact)
		return apperror.Conflict(vendorExists)
	case !errors.Is(err, store.ErrNotFound):
		return apperror.Database("find invitation", err)
	}

	var r models.Restaurant
	err = p.store.FindOne(ctx, store.Restaurants, store.Match{"contact": contact}, &r, store.Only("id"))
	switch {
	case err == nil:
		p.log.Warn("vendor already registered", "vendor_contact", contact)
		return apperror.Conflict(vendorExists)
	case !errors.Is(err, store.ErrNotFound):
		return apperror.Database("find restaurant", err)
	}
	return nil
}

func (p *Provisioner) passkeyTaken(ctx context.Context, key string) (bool, error) {
	var inv models.Invitation
	err := p.store.FindOne(ctx, store.Invitations,
		store.Match{"passkey": key, "status": models.InvitationUnused}, &inv, store.Only("id"))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Redeem flips the matching unused invitation to redeemed in a single
// compare-and-swap. Of any number of concurrent calls with the same pair,
// exactly one succeeds.
func (p *Provisioner) Redeem(ctx context.Context, passkey, contact string) (*models.Invitation, error) {
	match := store.Match{
		"passkey":        strings.TrimSpace(passkey),
		"vendor_contact": strings.TrimSpace(contact),
		"status":         statemachine.SourcesFor(models.InvitationRedeemed, statemachine.ActorVendor),
	}
	redeemedAt := p.now()
	patch := store.Patch{
		"status":      models.InvitationRedeemed,
		"redeemed_at": redeemedAt,
	}

	var inv models.Invitation
	err := p.store.CompareAndSwap(ctx, store.Invitations, match, patch, &inv)
	switch {
	case errors.Is(err, store.ErrNotFound):
		p.log.Warn("invalid passkey/contact", "vendor_contact", contact)
		return nil, apperror.InvalidAuthorization(invalidCombination)
	case err != nil:
		return nil, apperror.Database("redeem invitation", err)
	}
	if err := statemachine.CanTransition(models.InvitationUnused, inv.Status, statemachine.ActorVendor); err != nil {
		return nil, apperror.Server("redeem invitation", err)
	}
	p.log.Info("invitation redeemed", "invitation_id", inv.ID, "vendor_contact", inv.VendorContact)
	return &inv, nil
}

// Registration carries the vendor-chosen fields that are not on the invitation
type Registration struct {
	Passkey        string
	VendorContact  string
	RestaurantName string
	PasswordHash   string
	Image          string
}

// Onboard redeems the passkey and materializes the restaurant from the
// invitation profile. The existence check is repeated after redemption and
// the unique contact index catches a racing materialization.
func (p *Provisioner) Onboard(ctx context.Context, reg Registration) (*models.Restaurant, error) {
	inv, err := p.Redeem(ctx, reg.Passkey, reg.VendorContact)
	if err != nil {
		return nil, err
	}

	var existing models.Restaurant
	err = p.store.FindOne(ctx, store.Restaurants, store.Match{"contact": inv.VendorContact}, &existing, store.Only("id"))
	switch {
	case err == nil:
		p.log.Warn("vendor already exists", "vendor_contact", inv.VendorContact)
		return nil, apperror.Conflict(vendorRegistered)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperror.Database("find restaurant", err)
	}

	r := &models.Restaurant{
		VendorName:      inv.VendorName,
		RestaurantName:  strings.TrimSpace(reg.RestaurantName),
		Contact:         inv.VendorContact,
		Address:         inv.VendorAddress,
		Image:           strings.TrimSpace(reg.Image),
		PasswordHash:    reg.PasswordHash,
		ContactVerified: false,
	}
	err = p.store.Create(ctx, store.Restaurants, r)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return nil, apperror.Conflict(vendorRegistered)
	case err != nil:
		return nil, apperror.Database("create restaurant", err)
	}
	p.log.Info("vendor registered", "restaurant_id", r.ID, "invitation_id", inv.ID)
	return r, nil
}
