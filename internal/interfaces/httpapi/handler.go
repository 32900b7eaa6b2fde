package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/gridrivals/gridrivals/internal/domain/event"
	"github.com/gridrivals/gridrivals/internal/domain/leaderboard"
	"github.com/gridrivals/gridrivals/internal/domain/picks"
	"github.com/gridrivals/gridrivals/internal/platform/logging"
	"github.com/gridrivals/gridrivals/internal/usecase"
)

type Handler struct {
	inviteService      *usecase.InviteService
	authCodeService    *usecase.AuthCodeService
	adminService       *usecase.AdminService
	resultService      *usecase.ResultService
	picksService       *usecase.PicksService
	leaderboardService *usecase.LeaderboardService
	profileService     *usecase.ProfileService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	inviteService *usecase.InviteService,
	authCodeService *usecase.AuthCodeService,
	adminService *usecase.AdminService,
	resultService *usecase.ResultService,
	picksService *usecase.PicksService,
	leaderboardService *usecase.LeaderboardService,
	profileService *usecase.ProfileService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		inviteService:      inviteService,
		authCodeService:    authCodeService,
		adminService:       adminService,
		resultService:      resultService,
		picksService:       picksService,
		leaderboardService: leaderboardService,
		profileService:     profileService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ValidateInviteCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateInviteCode")
	defer span.End()

	var req validateInviteRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.inviteService.Validate(ctx, req.Code, resolveClientID(r)); err != nil {
		h.logger.WarnContext(ctx, "invite validation failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, inviteValidationDTO{Valid: true})
}

func (h *Handler) SendAuthCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendAuthCode")
	defer span.End()

	var req sendAuthCodeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.authCodeService.Issue(ctx, req.Email, resolveClientID(r)); err != nil {
		h.logger.WarnContext(ctx, "send auth code failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, authCodeSentDTO{Sent: true})
}

// VerifyAuthCode reports a wrong or stale code as data, not as an HTTP error:
// the caller retries with new input, nothing about the request itself failed.
func (h *Handler) VerifyAuthCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyAuthCode")
	defer span.End()

	var req verifyAuthCodeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.authCodeService.Verify(ctx, req.Email, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "verify auth code failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, authCodeVerificationDTO{
		Valid:   result.Valid,
		Message: verifyReasonMessage(result),
	})
}

func (h *Handler) TriggerRollup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TriggerRollup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	processed, err := h.adminService.TriggerRollup(ctx, principal.UserID, resolveClientID(r))
	if err != nil {
		h.logger.WarnContext(ctx, "manual rollup failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rollupResultDTO{Participants: processed})
}

func (h *Handler) GenerateInvites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateInvites")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req generateInvitesRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	codes, err := h.adminService.GenerateInvites(ctx, principal.UserID, req.Count)
	if err != nil {
		h.logger.WarnContext(ctx, "generate invites failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, generatedInvitesDTO{Codes: codes})
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, leaderboardEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListResults")
	defer span.End()

	results, err := h.resultService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list results failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventResultDTO, 0, len(results))
	for _, res := range results {
		items = append(items, eventResultToDTO(res))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetResult")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	result, err := h.resultService.Get(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get result failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventResultToDTO(result))
}

func (h *Handler) UpsertResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertResult")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	var req upsertResultRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.resultService.Upsert(ctx, usecase.UpsertResultInput{
		CallerID:         principal.UserID,
		EventID:          eventID,
		GrandPrixFinish:  req.GrandPrixFinish,
		SprintFinish:     req.SprintFinish,
		GrandPrixQuali:   req.GrandPrixQuali,
		SprintQuali:      req.SprintQuali,
		FastestLapDriver: req.FastestLapDriver,
		TeamByDriver:     req.TeamByDriver,
		Finalize:         req.Finalize,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert result failed", "event_id", eventID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventResultToDTO(result))
}

func (h *Handler) GetMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	p, err := h.picksService.Get(ctx, principal.UserID, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get picks failed", "event_id", eventID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(p))
}

func (h *Handler) ListMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	items, err := h.picksService.ListByParticipant(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list picks failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]picksDTO, 0, len(items))
	for _, p := range items {
		out = append(out, picksToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SaveMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	var req savePicksRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.picksService.Save(ctx, usecase.SavePicksInput{
		ParticipantID:    principal.UserID,
		EventID:          eventID,
		TeamIDs:          req.TeamIDs,
		CaptainTeamID:    req.CaptainTeamID,
		DriverIDs:        req.DriverIDs,
		ReserveDriverIDs: req.ReserveDriverIDs,
		FastestLapDriver: req.FastestLapDriver,
		Penalty:          req.Penalty,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save picks failed", "event_id", eventID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(p))
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	p, err := h.profileService.Get(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileDTO{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		IsAdmin:     p.IsAdmin,
	})
}

func (h *Handler) UpdateMyDisplayName(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMyDisplayName")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateDisplayNameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.profileService.UpdateDisplayName(ctx, principal.UserID, req.DisplayName, principal.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "update display name failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileDTO{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		IsAdmin:     p.IsAdmin,
	})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func verifyReasonMessage(result usecase.VerifyResult) string {
	if result.Valid {
		return ""
	}
	switch result.Reason {
	case usecase.VerifyReasonExpired:
		return "verification code has expired, request a new one"
	case usecase.VerifyReasonMismatch:
		return "verification code does not match"
	default:
		return "no verification code found for this email"
	}
}

type validateInviteRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}

type sendAuthCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyAuthCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,max=16"`
}

type generateInvitesRequest struct {
	Count int `json:"count" validate:"required,min=1,max=100"`
}

type upsertResultRequest struct {
	GrandPrixFinish  []string          `json:"grandPrixFinish"`
	SprintFinish     []string          `json:"sprintFinish"`
	GrandPrixQuali   []string          `json:"grandPrixQuali"`
	SprintQuali      []string          `json:"sprintQuali"`
	FastestLapDriver string            `json:"fastestLapDriver"`
	TeamByDriver     map[string]string `json:"teamByDriver"`
	Finalize         bool              `json:"finalize"`
}

type savePicksRequest struct {
	TeamIDs          []string `json:"teamIds" validate:"max=10,dive,required"`
	CaptainTeamID    string   `json:"captainTeamId"`
	DriverIDs        []string `json:"driverIds" validate:"max=10,dive,required"`
	ReserveDriverIDs []string `json:"reserveDriverIds" validate:"max=10,dive,required"`
	FastestLapDriver string   `json:"fastestLapDriver"`
	Penalty          float64  `json:"penalty" validate:"gte=0,lt=1"`
}

type updateDisplayNameRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=24"`
}

type inviteValidationDTO struct {
	Valid bool `json:"valid"`
}

type authCodeSentDTO struct {
	Sent bool `json:"sent"`
}

type authCodeVerificationDTO struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type rollupResultDTO struct {
	Participants int `json:"participants"`
}

type generatedInvitesDTO struct {
	Codes []string `json:"codes"`
}

type leaderboardEntryDTO struct {
	ParticipantID string `json:"participantId"`
	Total         int    `json:"total"`
	GrandPrix     int    `json:"grandPrixPoints"`
	Sprint        int    `json:"sprintPoints"`
	Qualifying    int    `json:"qualifyingPoints"`
	FastestLap    int    `json:"fastestLapPoints"`
	Rank          int    `json:"rank"`
	UpdatedAt     string `json:"updatedAt"`
}

type eventResultDTO struct {
	EventID          string            `json:"eventId"`
	GrandPrixFinish  []string          `json:"grandPrixFinish"`
	SprintFinish     []string          `json:"sprintFinish"`
	GrandPrixQuali   []string          `json:"grandPrixQuali"`
	SprintQuali      []string          `json:"sprintQuali"`
	FastestLapDriver string            `json:"fastestLapDriver"`
	TeamByDriver     map[string]string `json:"teamByDriver,omitempty"`
	Finalized        bool              `json:"finalized"`
	UpdatedAt        string            `json:"updatedAt"`
}

type picksDTO struct {
	EventID          string   `json:"eventId"`
	TeamIDs          []string `json:"teamIds"`
	CaptainTeamID    string   `json:"captainTeamId"`
	DriverIDs        []string `json:"driverIds"`
	ReserveDriverIDs []string `json:"reserveDriverIds"`
	FastestLapDriver string   `json:"fastestLapDriver"`
	Penalty          float64  `json:"penalty"`
	UpdatedAt        string   `json:"updatedAt"`
}

type profileDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"isAdmin"`
}

func leaderboardEntryToDTO(entry leaderboard.Entry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		ParticipantID: entry.ParticipantID,
		Total:         entry.Total,
		GrandPrix:     entry.Breakdown.GrandPrix,
		Sprint:        entry.Breakdown.Sprint,
		Qualifying:    entry.Breakdown.Qualifying,
		FastestLap:    entry.Breakdown.FastestLap,
		Rank:          entry.Rank,
		UpdatedAt:     entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func eventResultToDTO(res event.Result) eventResultDTO {
	return eventResultDTO{
		EventID:          res.EventID,
		GrandPrixFinish:  append([]string(nil), res.GrandPrixFinish...),
		SprintFinish:     append([]string(nil), res.SprintFinish...),
		GrandPrixQuali:   append([]string(nil), res.GrandPrixQuali...),
		SprintQuali:      append([]string(nil), res.SprintQuali...),
		FastestLapDriver: res.FastestLapDriver,
		TeamByDriver:     res.TeamByDriver,
		Finalized:        res.Finalized,
		UpdatedAt:        res.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func picksToDTO(p picks.Picks) picksDTO {
	return picksDTO{
		EventID:          p.EventID,
		TeamIDs:          append([]string(nil), p.TeamIDs...),
		CaptainTeamID:    p.CaptainTeamID,
		DriverIDs:        append([]string(nil), p.DriverIDs...),
		ReserveDriverIDs: append([]string(nil), p.ReserveDriverIDs...),
		FastestLapDriver: p.FastestLapDriver,
		Penalty:          p.Penalty,
		UpdatedAt:        p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
