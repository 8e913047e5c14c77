package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"qrtrack/internal/cache"
	"qrtrack/internal/config"
	"qrtrack/internal/dtos"
	"qrtrack/internal/entities"
	"qrtrack/internal/metrics"
	"qrtrack/internal/repositories"
	"qrtrack/internal/services"
	"qrtrack/internal/utils"
)

const invalidURLMsg = "Invalid URL: Only http:// and https:// protocols are allowed"

type Handlers struct {
	cfg config.Config

	qrRepo *repositories.QRCodeRepo

	scanSvc     *services.ScanService
	statsSvc    *services.StatsService
	qrSvc       services.QRService
	trackingSvc services.TrackingService

	cache    *cache.QRCodeCache
	validate *validator.Validate
}

func NewHandlers(
	cfg config.Config,
	qrRepo *repositories.QRCodeRepo,
	scanSvc *services.ScanService,
	statsSvc *services.StatsService,
	qrCache *cache.QRCodeCache,
) *Handlers {
	return &Handlers{
		cfg:      cfg,
		qrRepo:   qrRepo,
		scanSvc:  scanSvc,
		statsSvc: statsSvc,
		cache:    qrCache,
		validate: validator.New(),
	}
}

func (h *Handlers) redirectURL(slug string) string {
	return h.cfg.BaseURL + "/r/" + slug
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handlers) CreateQRCode(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateQRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "destination_url is required", http.StatusBadRequest)
		return
	}
	if !services.IsValidURL(req.DestinationURL) {
		http.Error(w, invalidURLMsg, http.StatusBadRequest)
		return
	}

	slug, err := services.GenerateSlug(h.cfg.SlugLen)
	if err != nil {
		http.Error(w, "could not generate slug", http.StatusInternalServerError)
		return
	}

	qr := entities.QRCode{
		Slug:           slug,
		Name:           nilIfEmpty(req.Name),
		DestinationURL: req.DestinationURL,
		UTMSource:      nilIfEmpty(req.UTMSource),
		UTMMedium:      nilIfEmpty(req.UTMMedium),
		UTMCampaign:    nilIfEmpty(req.UTMCampaign),
		UTMTerm:        nilIfEmpty(req.UTMTerm),
		UTMContent:     nilIfEmpty(req.UTMContent),
		ImpressionTag:  nilIfEmpty(req.ImpressionTag),
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.qrRepo.Create(&qr); err != nil {
		// The unique index is the collision backstop; one more draw covers
		// the rare clash without pre-checking storage.
		if !utils.IsUniqueConstraint(err) {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		slug, err = services.GenerateSlug(h.cfg.SlugLen)
		if err != nil {
			http.Error(w, "could not generate slug", http.StatusInternalServerError)
			return
		}
		qr.Slug = slug
		if err := h.qrRepo.Create(&qr); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
	}

	h.writeQRCode(w, &qr, http.StatusCreated)
}

func (h *Handlers) writeQRCode(w http.ResponseWriter, qr *entities.QRCode, status int) {
	redirectURL := h.redirectURL(qr.Slug)
	img, err := h.qrSvc.MakeBase64(redirectURL)
	if err != nil {
		http.Error(w, "could not generate qr image", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, dtos.QRCodeResponse{
		QRCode:      *qr,
		RedirectURL: redirectURL,
		QRCodeImage: img,
	}, status)
}

func (h *Handlers) ListQRCodes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.qrRepo.ListActive()
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	out := make([]dtos.QRCodeListItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, dtos.QRCodeListItem{
			QRCode:      row.QRCode,
			TotalScans:  row.TotalScans,
			RedirectURL: h.redirectURL(row.Slug),
		})
	}

	utils.WriteJSON(w, out, http.StatusOK)
}

func (h *Handlers) GetQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	qr, err := h.qrRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "QR code not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.writeQRCode(w, qr, http.StatusOK)
}

func (h *Handlers) UpdateQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req dtos.UpdateQRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.DestinationURL != nil && !services.IsValidURL(*req.DestinationURL) {
		http.Error(w, invalidURLMsg, http.StatusBadRequest)
		return
	}

	fields := map[string]any{}
	setOptional(fields, "name", req.Name)
	if req.DestinationURL != nil {
		fields["destination_url"] = *req.DestinationURL
	}
	setOptional(fields, "utm_source", req.UTMSource)
	setOptional(fields, "utm_medium", req.UTMMedium)
	setOptional(fields, "utm_campaign", req.UTMCampaign)
	setOptional(fields, "utm_term", req.UTMTerm)
	setOptional(fields, "utm_content", req.UTMContent)
	setOptional(fields, "dcm_impression_tag", req.ImpressionTag)

	if len(fields) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	qr, err := h.qrRepo.Update(id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "QR code not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.invalidateCache(r.Context(), qr.Slug)

	utils.WriteJSON(w, qr, http.StatusOK)
}

func (h *Handlers) DeleteQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	qr, err := h.qrRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "QR code not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if err := h.qrRepo.Archive(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "QR code not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.invalidateCache(r.Context(), qr.Slug)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) QRCodeStats(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.qrRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "QR code not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	rng, err := parseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		http.Error(w, "startDate and endDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	stats, err := h.statsSvc.GetStats(id, rng)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}

// Redirect is the public scan endpoint: resolve the slug, kick off the scan
// write in the background and answer with either a 302 or the tracking page.
// Nothing after resolution may fail the redirect.
func (h *Handlers) Redirect(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var qr *entities.QRCode
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), slug); err == nil && cached != nil {
			qr = cached
		}
	}

	if qr == nil {
		var err error
		qr, err = h.qrRepo.GetBySlug(slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "QR code not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if h.cache != nil {
			if err := h.cache.Set(r.Context(), qr); err != nil {
				log.Printf("cache fill failed for %s: %v", qr.Slug, err)
			}
		}
	}

	metrics.Redirects.Inc()

	ip := utils.GetClientIP(r)
	ua := r.UserAgent()
	ref := r.Referer()
	qrCodeID := qr.ID
	go func() {
		if err := h.scanSvc.Record(qrCodeID, ua, ref, ip); err != nil {
			metrics.ScanRecordFailures.Inc()
			log.Printf("scan insert failed for qr_code %d: %v", qrCodeID, err)
			return
		}
		metrics.ScansRecorded.Inc()
	}()

	finalURL, err := services.BuildFinalURL(qr.DestinationURL, utmFromEntity(qr))
	if err != nil {
		// Stored URLs are validated on write; if one still fails to parse,
		// redirect to it untouched rather than failing the scan.
		log.Printf("final url build failed for %s: %v", qr.Slug, err)
		finalURL = qr.DestinationURL
	}

	if qr.ImpressionTag != nil && strings.TrimSpace(*qr.ImpressionTag) != "" {
		page, err := h.trackingSvc.RenderPage(*qr.ImpressionTag, finalURL)
		if err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(page)
			return
		}
		log.Printf("tracking page render failed for %s: %v", qr.Slug, err)
	}

	http.Redirect(w, r, finalURL, http.StatusFound)
}

func (h *Handlers) invalidateCache(ctx context.Context, slug string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, slug); err != nil {
		log.Printf("cache invalidation failed for %s: %v", slug, err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

// parseDateRange applies the window only when both bounds are present, like
// the stats queries expect. Dates are inclusive calendar days.
func parseDateRange(start, end string) (*repositories.DateRange, error) {
	if start == "" || end == "" {
		return nil, nil
	}
	from, err := time.ParseInLocation("2006-01-02", start, time.UTC)
	if err != nil {
		return nil, err
	}
	to, err := time.ParseInLocation("2006-01-02", end, time.UTC)
	if err != nil {
		return nil, err
	}
	return &repositories.DateRange{From: from, To: to}, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// setOptional records a present field; an explicit empty string clears the
// column to NULL.
func setOptional(fields map[string]any, column string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		fields[column] = nil
		return
	}
	fields[column] = *v
}

func utmFromEntity(qr *entities.QRCode) services.UTMParams {
	return services.UTMParams{
		Source:   strVal(qr.UTMSource),
		Medium:   strVal(qr.UTMMedium),
		Campaign: strVal(qr.UTMCampaign),
		Term:     strVal(qr.UTMTerm),
		Content:  strVal(qr.UTMContent),
	}
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
