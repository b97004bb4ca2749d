package auth

import (
	"context"
	"sync"
)

// Credential is what the identity provider hands the page after the user
// picks an account: a signed JWT.
type Credential struct {
	Raw string
}

// IdentityOptions configures the token flow at Initialize time.
type IdentityOptions struct {
	ClientID           string
	Callback           func(ctx context.Context, c Credential)
	AutoSelect         bool
	CancelOnTapOutside bool
}

// PromptMoment reports what happened to an auto-display prompt.
type PromptMoment struct {
	Displayed bool
	Skipped   bool
	Reason    string // set when not displayed or skipped
}

// IdentityClient is the port to a provider library that delivers credentials
// in-page (Google One Tap). Prompt invokes the registered Callback at most
// once per prompt.
type IdentityClient interface {
	Initialize(opts IdentityOptions)
	Prompt(ctx context.Context, notify func(PromptMoment))
	DisableAutoSelect()
}

// Prompt reasons reported by OneTap.
const (
	ReasonNotInitialized = "not_initialized"
	ReasonNoCredential   = "no_credential"
	ReasonSourceError    = "credential_source_error"
	ReasonAutoSelectOff  = "auto_select_disabled"
)

// CredentialSource produces a raw credential, or "" when the user has none
// to offer.
type CredentialSource func(ctx context.Context) (string, error)

// OneTap is an IdentityClient for a terminal: instead of rendering an account
// chooser it asks a CredentialSource (an env var, a file, a pasted token) and
// delivers what it gets to the registered callback.
type OneTap struct {
	source CredentialSource

	mu                 sync.Mutex
	opts               *IdentityOptions
	autoSelectDisabled bool
}

var _ IdentityClient = (*OneTap)(nil)

func NewOneTap(source CredentialSource) *OneTap {
	return &OneTap{source: source}
}

func (o *OneTap) Initialize(opts IdentityOptions) {
	o.mu.Lock()
	o.opts = &opts
	o.mu.Unlock()
}

// Prompt runs synchronously: by the time it returns the callback has run (or
// the moment was reported as not displayed). After DisableAutoSelect the
// prompt is skipped, so a signed-out user is not signed straight back in.
func (o *OneTap) Prompt(ctx context.Context, notify func(PromptMoment)) {
	if notify == nil {
		notify = func(PromptMoment) {}
	}

	o.mu.Lock()
	opts := o.opts
	disabled := o.autoSelectDisabled
	o.mu.Unlock()

	if opts == nil || opts.Callback == nil {
		notify(PromptMoment{Reason: ReasonNotInitialized})
		return
	}
	if disabled {
		notify(PromptMoment{Skipped: true, Reason: ReasonAutoSelectOff})
		return
	}

	raw, err := o.source(ctx)
	if err != nil {
		notify(PromptMoment{Reason: ReasonSourceError})
		return
	}
	if raw == "" {
		notify(PromptMoment{Reason: ReasonNoCredential})
		return
	}

	notify(PromptMoment{Displayed: true})
	opts.Callback(ctx, Credential{Raw: raw})
}

func (o *OneTap) DisableAutoSelect() {
	o.mu.Lock()
	o.autoSelectDisabled = true
	o.mu.Unlock()
}

// AutoSelectDisabled reports whether DisableAutoSelect has been called.
func (o *OneTap) AutoSelectDisabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.autoSelectDisabled
}
