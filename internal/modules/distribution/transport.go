package distribution

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/reconhq/recon-core/internal/models"
	"go.uber.org/zap"
)

const (
	createNewsPath = "/api/create-news/"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// PortalClient delivers one publish attempt to a portal's ingest endpoint.
// The portal's response body is captured verbatim for the ledger.
type PortalClient struct {
	http *http.Client
	log  *zap.Logger
}

func NewPortalClient(timeout time.Duration, log *zap.Logger) *PortalClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PortalClient{
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// publishRequest is one fully-resolved delivery payload.
type publishRequest struct {
	CategoryExternalID string
	Author             string
	Variant            Variant
	Post               *models.MasterPostModel
}

// Publish posts the form payload to {base_url}/api/create-news/.
// Only 200 and 201 count as accepted; any other status is a rejection with
// the body preserved.
func (pc *PortalClient) Publish(ctx context.Context, portal models.PortalModel, req publishRequest) (bool, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := buildFormFields(req)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return false, "", err
		}
	}

	if imageURL := strings.TrimSpace(req.Post.ImageURL); imageURL != "" {
		if err := pc.attachImage(ctx, w, imageURL); err != nil {
			// A missing image must not block text delivery.
			pc.log.Warn("post image fetch failed, sending without image",
				zap.String("portal", portal.Name),
				zap.String("image_url", imageURL),
				zap.Error(err))
		}
	}

	if err := w.Close(); err != nil {
		return false, "", err
	}

	endpoint := strings.TrimRight(portal.BaseURL, "/") + createNewsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return false, "", err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("X-Api-Key", portal.APIKey)
	httpReq.Header.Set("X-Secret-Key", portal.SecretKey)

	resp, err := pc.http.Do(httpReq)
	if err != nil {
		return false, "", err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return false, "", readErr
	}

	accepted := resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated
	if !accepted {
		return false, fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)), nil
	}
	return true, string(body), nil
}

func (pc *PortalClient) attachImage(ctx context.Context, w *multipart.Writer, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	resp, err := pc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	filename := path.Base(strings.SplitN(imageURL, "?", 2)[0])
	if filename == "" || filename == "." || filename == "/" {
		filename = "post_image"
	}
	part, err := w.CreateFormFile("post_image", filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, io.LimitReader(resp.Body, 20<<20))
	return err
}

// buildFormFields maps the variant and post flags onto the portal's form
// contract. Unset booleans default to 0 except is_active which defaults to 1;
// an unset schedule date means "now".
func buildFormFields(req publishRequest) map[string]string {
	post := req.Post

	// Flag casing follows the portals' form contract verbatim; the mixed
	// style is theirs, not ours.
	fields := map[string]string{
		"post_cat":       req.CategoryExternalID,
		"post_title":     req.Variant.Title,
		"post_short_des": req.Variant.ShortDescription,
		"post_des":       req.Variant.Content,
		"meta_title":     req.Variant.MetaTitle,
		"slug":           req.Variant.Slug,
		"author":         req.Author,
		"post_tag":       "news",
		"is_active":      boolField(post.IsActive, true),
		"latest_news":    boolField(post.LatestNews, false),
		"upcoming_event": boolField(post.UpcomingEvent, false),
		"Head_Lines":     boolField(post.HeadLines, false),
		"articles":       boolField(post.Articles, false),
		"trending":       boolField(post.Trending, false),
		"BreakingNews":   boolField(post.BreakingNews, false),
		"Event":          boolField(post.Event, false),
	}

	if tag := strings.TrimSpace(post.PostTag); tag != "" {
		fields["post_tag"] = tag
	}
	now := time.Now()
	fields["Event_date"] = dateField(post.EventDate, now)
	fields["Eventend_date"] = dateField(post.EventEndDate, now)
	schedule := now
	if post.ScheduleDate != nil {
		schedule = *post.ScheduleDate
	}
	fields["schedule_date"] = schedule.Format(dateTimeLayout)
	if post.Counter != nil {
		fields["post_status"] = strconv.Itoa(*post.Counter)
	}

	return fields
}

// liveURL builds the public URL of a published post when the portal's
// serving domain is known.
func liveURL(portal models.PortalModel, slug string) string {
	domain := strings.TrimSpace(portal.Domain)
	if domain == "" || slug == "" {
		return ""
	}
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return strings.TrimRight(domain, "/") + "/news/" + slug
}

func dateField(v *time.Time, fallback time.Time) string {
	if v != nil {
		return v.Format(dateLayout)
	}
	return fallback.Format(dateLayout)
}

func boolField(v *bool, def bool) string {
	b := def
	if v != nil {
		b = *v
	}
	if b {
		return "1"
	}
	return "0"
}
