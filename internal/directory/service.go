// Package directory owns the working session over the published dealer page:
// the raw page text, the decoded dealer and region lists, and the version
// token from the last successful fetch. All edits stay in memory until an
// explicit Save.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bishnuhaldar/dealerdesk/internal/apperr"
	"github.com/bishnuhaldar/dealerdesk/internal/checksum"
	"github.com/bishnuhaldar/dealerdesk/internal/gateway"
	"github.com/bishnuhaldar/dealerdesk/internal/htmlcodec"
	"github.com/bishnuhaldar/dealerdesk/internal/models"
)

// DefaultCommitMessage is used when Save is called with a blank message.
const DefaultCommitMessage = "Update dealer directory"

// Service holds the document state for one editing session.
//
// Each session action is logically serial, but HTTP handlers run
// concurrently, so the state is guarded by a mutex. Cross-session conflicts
// are detected by the remote sha check at save time, never merged.
type Service struct {
	gw     gateway.Provider
	logger *slog.Logger

	mu        sync.Mutex
	loaded    bool
	page      string
	sha       string
	dealers   []models.Dealer
	regions   []string
	dirty     bool
	fetchedAt time.Time
	warnings  []string
}

// NewService creates a session service over the given gateway.
func NewService(gw gateway.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gw: gw, logger: logger}
}

// Refresh discards the working copy and rebuilds it from the remote page.
//
// Decode problems do not fail the refresh: per the page's best-effort policy
// each decode error is logged, recorded as a warning in the status, and the
// affected list comes up empty. Only a transport failure is returned as an
// error, in which case the previous session state is kept.
func (s *Service) Refresh(ctx context.Context) (*models.DocumentStatus, error) {
	file, err := s.gw.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	var warnings []string

	dealers, err := htmlcodec.DecodeDealers(file.Content)
	if err != nil {
		s.logger.Warn("decode dealers failed", slog.String("error", err.Error()))
		warnings = append(warnings, fmt.Sprintf("dealers: %v", err))
		dealers = []models.Dealer{}
	}

	regions, err := htmlcodec.DecodeRegions(file.Content)
	if err != nil {
		s.logger.Warn("decode regions failed", slog.String("error", err.Error()))
		warnings = append(warnings, fmt.Sprintf("regions: %v", err))
		regions = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.page = file.Content
	s.sha = file.SHA
	s.dealers = dealers
	s.regions = regions
	s.dirty = false
	s.fetchedAt = time.Now()
	s.warnings = warnings

	return s.statusLocked(), nil
}

// Save re-encodes both embedded regions into the page text and commits the
// result with the held version token.
//
// ifMatch, when non-empty, must equal the current document checksum (the
// value reported by Status) or the save is rejected with ErrConflict before
// any network call. A missing encode target aborts the save with
// ErrTargetNotFound. A stale remote sha surfaces as ErrConflict from the
// gateway; the session is left untouched and the caller must Refresh.
func (s *Service) Save(ctx context.Context, message, ifMatch string) (*models.DocumentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, fmt.Errorf("directory: no document loaded, refresh first: %w", apperr.ErrNotFound)
	}
	if ifMatch != "" && ifMatch != checksum.Sum(s.page) {
		return nil, fmt.Errorf("directory: working copy changed since If-Match was taken: %w", apperr.ErrConflict)
	}

	page, err := htmlcodec.EncodeDealers(s.page, s.dealers)
	if err != nil {
		return nil, fmt.Errorf("directory: encode dealers: %w", err)
	}
	page, err = htmlcodec.EncodeRegions(page, s.regions)
	if err != nil {
		return nil, fmt.Errorf("directory: encode regions: %w", err)
	}

	if message == "" {
		message = DefaultCommitMessage
	}

	newSHA, err := s.gw.Update(ctx, page, s.sha, message)
	if err != nil {
		return nil, err
	}

	s.page = page
	s.sha = newSHA
	s.dirty = false
	s.warnings = nil
	return s.statusLocked(), nil
}

// Status reports the current session state.
func (s *Service) Status() *models.DocumentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Service) statusLocked() *models.DocumentStatus {
	st := &models.DocumentStatus{
		SHA:       s.sha,
		Dealers:   len(s.dealers),
		Regions:   len(s.regions),
		Dirty:     s.dirty,
		FetchedAt: s.fetchedAt,
		Warnings:  s.warnings,
	}
	if s.loaded {
		st.Checksum = checksum.Sum(s.page)
	}
	return st
}

// Dealers returns a copy of the working dealer list.
func (s *Service) Dealers() []models.Dealer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Dealer, len(s.dealers))
	copy(out, s.dealers)
	return out
}

// Dealer returns the dealer with the given name.
func (s *Service) Dealer(name string) (*models.Dealer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dealers {
		if s.dealers[i].Name == name {
			d := s.dealers[i]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("directory: dealer %q: %w", name, apperr.ErrNotFound)
}

// AddDealer validates and appends a dealer to the working copy.
func (s *Service) AddDealer(d models.Dealer) error {
	normalizeDealer(&d)
	if err := validateDealer(d); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dealers {
		if s.dealers[i].Name == d.Name {
			return fmt.Errorf("directory: dealer %q: %w", d.Name, apperr.ErrAlreadyExists)
		}
	}
	s.dealers = append(s.dealers, d)
	s.dirty = true
	return nil
}

// UpdateDealer validates and replaces the dealer with the given name. The
// replacement may carry a different name, as long as it does not collide
// with another existing dealer.
func (s *Service) UpdateDealer(name string, d models.Dealer) error {
	normalizeDealer(&d)
	if err := validateDealer(d); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.dealers {
		if s.dealers[i].Name == name {
			idx = i
		} else if s.dealers[i].Name == d.Name {
			return fmt.Errorf("directory: dealer %q: %w", d.Name, apperr.ErrAlreadyExists)
		}
	}
	if idx < 0 {
		return fmt.Errorf("directory: dealer %q: %w", name, apperr.ErrNotFound)
	}
	s.dealers[idx] = d
	s.dirty = true
	return nil
}

// DeleteDealer removes the dealer with the given name from the working copy.
func (s *Service) DeleteDealer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dealers {
		if s.dealers[i].Name == name {
			s.dealers = append(s.dealers[:i], s.dealers[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("directory: dealer %q: %w", name, apperr.ErrNotFound)
}

// Regions returns a copy of the working region list.
func (s *Service) Regions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.regions))
	copy(out, s.regions)
	return out
}

// AddRegion appends a region label. Uniqueness is by exact text match.
func (s *Service) AddRegion(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("directory: region label is required: %w", apperr.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regions {
		if r == label {
			return fmt.Errorf("directory: region %q: %w", label, apperr.ErrAlreadyExists)
		}
	}
	s.regions = append(s.regions, label)
	s.dirty = true
	return nil
}

// DeleteRegion removes a region label. Dealers referencing it are left
// untouched; dealer-to-region references are a soft invariant only.
func (s *Service) DeleteRegion(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.regions {
		if r == label {
			s.regions = append(s.regions[:i], s.regions[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("directory: region %q: %w", label, apperr.ErrNotFound)
}

// normalizeDealer trims names and fills in the default price unit.
func normalizeDealer(d *models.Dealer) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Regions == nil {
		d.Regions = []string{}
	}
	for i := range d.PaddyTypes {
		if strings.TrimSpace(d.PaddyTypes[i].Unit) == "" {
			d.PaddyTypes[i].Unit = models.DefaultUnit
		}
	}
}

func validateDealer(d models.Dealer) error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Contact, validation.Required),
		validation.Field(&d.Rating, validation.Required),
		validation.Field(&d.PaddyTypes, validation.Required.Error("at least one price entry is required")),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	for i, p := range d.PaddyTypes {
		err := validation.ValidateStruct(&p,
			validation.Field(&p.Name, validation.Required),
			validation.Field(&p.Price, validation.Required),
		)
		if err != nil {
			return fmt.Errorf("%w: price entry %d: %v", apperr.ErrValidation, i+1, err)
		}
	}
	return nil
}
