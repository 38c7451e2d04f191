package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/model"
	"github.com/andrea360/fitness-center-backend/internal/repository"
)

// MemberHandler manages member profiles.  Profiles are created by
// staff after a user registers; members may read their own profile but
// never change their membership status.
type MemberHandler struct {
	Members *repository.MemberRepo
	Users   *repository.UserRepo
}

func NewMemberHandler(members *repository.MemberRepo, users *repository.UserRepo) *MemberHandler {
	if members == nil || users == nil {
		panic("nil repository passed to NewMemberHandler")
	}
	return &MemberHandler{Members: members, Users: users}
}

type createMemberReq struct {
	UserID          uint64     `json:"user_id"`
	LocationID      uint64     `json:"location_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           string     `json:"phone"`
	MembershipStart *time.Time `json:"membership_start"`
	MembershipEnd   *time.Time `json:"membership_end"`
	Notes           string     `json:"notes"`
}

// Create handles POST /v1/members.  Employees create profiles at
// their own location; admins anywhere.  The profile starts ACTIVE.
func (h *MemberHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch {
	case req.UserID == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	case req.LocationID == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_id is required"})
	case req.FirstName == "" && req.LastName == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !p.CanAccessLocation(req.LocationID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot create members at another location"})
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if _, err := h.Members.GetByUserID(ctx, req.UserID); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user already has a member profile"})
	} else if !errors.Is(err, repository.ErrMemberNotFound) {
		return fail(c, err)
	}

	member := &model.Member{
		UserID:           req.UserID,
		LocationID:       req.LocationID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            u.Email,
		Phone:            req.Phone,
		MembershipStart:  req.MembershipStart,
		MembershipEnd:    req.MembershipEnd,
		MembershipStatus: model.MembershipActive,
		Notes:            req.Notes,
	}
	if err := h.Members.Create(ctx, member); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, member)
}

// Get handles GET /v1/members/:id.
func (h *MemberHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	member, err := h.Members.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
		}
		return fail(c, err)
	}
	if !p.CanModifyOwned(member.LocationID, member.ID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, member)
}

// Me handles GET /v1/members/me for member principals.
func (h *MemberHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	member, err := h.Members.GetByUserID(c.Request().Context(), p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no member profile yet"})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

// ListByLocation handles GET /v1/locations/:id/members for staff.
func (h *MemberHandler) ListByLocation(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	locationID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if !p.CanAccessLocation(locationID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot list another location's members"})
	}
	members, err := h.Members.ListByLocation(c.Request().Context(), locationID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": members})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/members/:id/status for staff.
func (h *MemberHandler) UpdateStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Status {
	case model.MembershipActive, model.MembershipInactive, model.MembershipSuspended,
		model.MembershipExpired, model.MembershipPendingPayment, model.MembershipTrial:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown membership status"})
	}

	ctx := c.Request().Context()
	member, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "member not found"})
		}
		return fail(c, err)
	}
	if !p.CanAccessLocation(member.LocationID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "member belongs to another location"})
	}
	if err := h.Members.UpdateStatus(ctx, id, req.Status); err != nil {
		return fail(c, err)
	}
	member.MembershipStatus = req.Status
	return c.JSON(http.StatusOK, member)
}
