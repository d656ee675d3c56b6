package distribution

import (
	"errors"

	"github.com/reconhq/recon-core/internal/models"
)

// Validation errors that abort a publish call before any dispatch begins.
// Per-portal failures never surface as errors; they become result entries.
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrNoSelector       = errors.New("a master category or acting user is required")
	ErrNoPortalsMapped  = errors.New("no portals mapped for the given selection")
	ErrNoDefaultMapping = errors.New("portal has no default category mapping; explicit category selection required")
	ErrUnknownStrategy  = errors.New(`strategy must be "skip-if-success" or "always-resend"`)
)

// Target is one resolved (portal, portal category, mapping) destination.
type Target struct {
	Portal         models.PortalModel
	PortalCategory models.PortalCategoryModel
	Mapping        models.CategoryMappingModel
}

// CanonicalFields are the master post fields fed to the variation generator.
type CanonicalFields struct {
	Title            string
	ShortDescription string
	Content          string
	MetaTitle        string
	Slug             string
}

// Variant is the portal-specific version of a post's text fields.
type Variant struct {
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Content          string `json:"description"`
	MetaTitle        string `json:"meta_title"`
	Slug             string `json:"slug"`
}

// PublishInput describes one publish invocation. PortalID pushes to a single
// portal through its default mapping; MasterCategoryID fans out across every
// mapped portal; with neither, the acting user's assignments decide.
type PublishInput struct {
	PostID           string
	PortalID         string
	MasterCategoryID string
	UserID           string
	ExcludedPortals  []string
	Strategy         string
}

// PortalResult is the per-portal outcome of a publish call.
type PortalResult struct {
	Portal   string `json:"portal"`
	Category string `json:"category"`
	Success  bool   `json:"success"`
	Skipped  bool   `json:"skipped"`
	Response string `json:"response"`
	LiveURL  string `json:"live_url,omitempty"`
}
