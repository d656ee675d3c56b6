package distribution

import (
	"context"
	"errors"
	"strings"

	"github.com/reconhq/recon-core/internal/config"
	"github.com/reconhq/recon-core/internal/models"
	"github.com/reconhq/recon-core/internal/modules/identity"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dispatcher orchestrates a publish: resolve targets, generate per-portal
// variants, resolve the author identity, deliver, and record the outcome.
// One portal failing never stops delivery to the rest.
type Dispatcher struct {
	db        *gorm.DB
	resolver  *Resolver
	generator *Generator
	identity  *identity.Service
	ledger    *Ledger
	client    *PortalClient
	log       *zap.Logger

	defaultStrategy string
}

func NewDispatcher(
	db *gorm.DB,
	resolver *Resolver,
	generator *Generator,
	identitySvc *identity.Service,
	ledger *Ledger,
	client *PortalClient,
	log *zap.Logger,
	defaultStrategy string,
) *Dispatcher {
	if defaultStrategy == "" {
		defaultStrategy = config.StrategySkipIfSuccess
	}
	return &Dispatcher{
		db:              db,
		resolver:        resolver,
		generator:       generator,
		identity:        identitySvc,
		ledger:          ledger,
		client:          client,
		log:             log,
		defaultStrategy: defaultStrategy,
	}
}

// Publish fans one post out to every resolved portal and returns the
// per-portal outcomes. The returned error covers validation only; delivery
// failures live inside the result list.
func (d *Dispatcher) Publish(ctx context.Context, in PublishInput) ([]PortalResult, error) {
	strategy := in.Strategy
	if strategy == "" {
		strategy = d.defaultStrategy
	}
	if strategy != config.StrategySkipIfSuccess && strategy != config.StrategyAlwaysResend {
		return nil, ErrUnknownStrategy
	}

	post, err := d.loadPost(in.PostID)
	if err != nil {
		return nil, err
	}

	userID := in.UserID
	if userID == "" {
		userID = post.CreatedByID
	}

	targets, err := d.resolveTargets(in, userID)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, ErrNoPortalsMapped
	}
	excluded := excludedSet(in.ExcludedPortals)

	canonical := CanonicalFields{
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		Content:          post.Content,
	}

	results := make([]PortalResult, 0, len(targets))
	for _, target := range dedupeByPortal(targets) {
		results = append(results, d.dispatchOne(ctx, post, target, canonical, userID, strategy, excluded))
	}
	return results, nil
}

func (d *Dispatcher) dispatchOne(
	ctx context.Context,
	post *models.MasterPostModel,
	target Target,
	canonical CanonicalFields,
	userID, strategy string,
	excluded map[string]struct{},
) PortalResult {
	portal := target.Portal
	result := PortalResult{
		Portal:   portal.Name,
		Category: target.PortalCategory.Name,
	}

	if _, ok := excluded[strings.ToLower(portal.Name)]; ok {
		result.Skipped = true
		result.Response = "portal excluded by request"
		return result
	}
	if _, ok := excluded[portal.ID]; ok {
		result.Skipped = true
		result.Response = "portal excluded by request"
		return result
	}
	if !portal.Enabled {
		result.Skipped = true
		result.Response = "portal disabled"
		return result
	}

	if strategy == config.StrategySkipIfSuccess {
		prior, err := d.ledger.Get(post.ID, portal.ID)
		if err != nil {
			result.Response = err.Error()
			return result
		}
		if prior != nil && prior.Status == models.DistributionSuccess {
			result.Skipped = true
			result.Success = true
			result.Response = "already distributed"
			result.LiveURL = liveURL(portal, prior.VariantSlug)
			return result
		}
	}

	author, err := d.identity.ResolveAuthor(userID, portal.ID)
	if err != nil {
		// No ledger row: nothing was sent, so there is nothing to retry
		// against this pair until the identity is matched.
		if errors.Is(err, identity.ErrNoIdentityMapping) {
			result.Response = err.Error()
		} else {
			result.Response = "identity lookup failed: " + err.Error()
		}
		d.log.Warn("skipping portal, author identity unresolved",
			zap.String("portal", portal.Name),
			zap.String("user_id", userID),
			zap.Error(err))
		return result
	}

	variant := d.variantFor(ctx, target, canonical)

	ok, body, err := d.client.Publish(ctx, portal, publishRequest{
		CategoryExternalID: target.PortalCategory.ExternalID,
		Author:             author,
		Variant:            variant,
		Post:               post,
	})
	status := models.DistributionSuccess
	responseMessage := body
	if err != nil {
		status = models.DistributionFailed
		responseMessage = err.Error()
	} else if !ok {
		status = models.DistributionFailed
	}

	if _, recErr := d.ledger.Record(AttemptOutcome{
		PostID:           post.ID,
		PortalID:         portal.ID,
		PortalCategoryID: target.PortalCategory.ID,
		MasterCategoryID: target.Mapping.MasterCategoryID,
		Variant:          variant,
		Status:           status,
		ResponseMessage:  responseMessage,
	}); recErr != nil {
		d.log.Error("distribution record write failed",
			zap.String("portal", portal.Name),
			zap.String("post_id", post.ID),
			zap.Error(recErr))
	}

	result.Success = status == models.DistributionSuccess
	result.Response = responseMessage
	if result.Success {
		result.LiveURL = liveURL(portal, variant.Slug)
	}

	d.log.Info("portal dispatch finished",
		zap.String("portal", portal.Name),
		zap.String("post_id", post.ID),
		zap.String("status", status))
	return result
}

// variantFor picks passthrough or AI rewrite per the mapping, resolving the
// style prompt portal-first, then global, then the built-in default.
func (d *Dispatcher) variantFor(ctx context.Context, target Target, canonical CanonicalFields) Variant {
	if target.Mapping.UseDefaultContent {
		return d.generator.Passthrough(canonical)
	}
	return d.generator.Generate(ctx, canonical, d.stylePrompt(target.Portal.ID), target.Portal.Name)
}

func (d *Dispatcher) stylePrompt(portalID string) string {
	var prompt models.PortalPromptModel
	err := d.db.Where("portal_id = ? AND enabled = ?", portalID, true).First(&prompt).Error
	if err == nil {
		return prompt.Text
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		d.log.Warn("portal prompt lookup failed", zap.Error(err))
		return ""
	}

	err = d.db.Where("portal_id IS NULL AND enabled = ?", true).First(&prompt).Error
	if err == nil {
		return prompt.Text
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		d.log.Warn("global prompt lookup failed", zap.Error(err))
	}
	return ""
}

func (d *Dispatcher) loadPost(postID string) (*models.MasterPostModel, error) {
	var post models.MasterPostModel
	err := d.db.First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (d *Dispatcher) resolveTargets(in PublishInput, userID string) ([]Target, error) {
	if in.PortalID != "" {
		target, err := d.resolver.ResolveDefaultTarget(in.PortalID)
		if err != nil {
			return nil, err
		}
		return []Target{*target}, nil
	}
	if in.MasterCategoryID != "" {
		return d.resolver.ResolveByMasterCategory(in.MasterCategoryID)
	}
	if userID != "" {
		return d.resolver.ResolveByUser(userID)
	}
	return nil, ErrNoSelector
}

// dedupeByPortal keeps the first mapping per portal in resolution order.
func dedupeByPortal(targets []Target) []Target {
	seen := map[string]struct{}{}
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if _, ok := seen[t.Portal.ID]; ok {
			continue
		}
		seen[t.Portal.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func excludedSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		set[strings.ToLower(n)] = struct{}{}
		set[n] = struct{}{}
	}
	return set
}
