// Card HTTP handlers.
//
// This file exposes the REST endpoints for card resources:
//   - GET    /cards             (list, weak ETag support)
//   - POST   /cards             (create)
//   - DELETE /cards/{id}        (owner-only delete, returns the deleted card)
//   - PUT    /cards/{id}/likes  (like, idempotent)
//   - DELETE /cards/{id}/likes  (dislike, idempotent)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including conditional
// responses on the list endpoint).
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateCardRequest is the JSON payload for creating a card.
type CreateCardRequest struct {
	// Name is the card caption (2–30 chars).
	Name string `json:"name" binding:"required,min=2,max=30" example:"Lago di Braies"`
	// Link is the photo URL.
	Link string `json:"link" binding:"required,url" example:"https://example.com/braies.jpg"`
}

// CreateCard godoc
// @ID          createCard
// @Summary     Create a card
// @Description Creates a card owned by the authenticated user with an empty likes set.
// @Tags        Cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateCardRequest  true  "Card payload"
//
// @Success     201  {object}  domain.Card
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /cards [post]
func (h *Handlers) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadRequest))
		return
	}
	card, err := h.cardSvc.Create(c.Request.Context(), userID(c), req.Name, req.Link)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusCreated, card)
}

// ListCards godoc
// @ID          listCards
// @Summary     List cards
// @Description Returns all cards with their likes. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Cards
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}  domain.Card
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /cards [get]
func (h *Handlers) ListCards(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort). The tag covers both the cards table and
	// the likes table: a like changes the listed representation even though
	// no card row is written.
	if cardCount, likeCount, latest, err := h.cardSvc.Stats(ctx); err == nil {
		var ts int64
		if latest != nil {
			ts = latest.Unix()
		}
		etag := fmt.Sprintf(`W/"cards:%d:%d:%d"`, cardCount, likeCount, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	cards, err := h.cardSvc.List(ctx)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, cards)
}

// DeleteCard godoc
// @ID          deleteCard
// @Summary     Delete a card
// @Description Deletes a card owned by the authenticated user and returns the deleted card.
// @Tags        Cards
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Card ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Card
// @Failure     400  {object}  handlers.ErrorResponse "Malformed id"
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     403  {object}  handlers.ErrorResponse "Card belongs to another user"
// @Failure     404  {object}  handlers.ErrorResponse "Card not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /cards/{id} [delete]
func (h *Handlers) DeleteCard(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadID))
		return
	}
	card, err := h.cardSvc.Delete(c.Request.Context(), userID(c), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, card)
}

// LikeCard godoc
// @ID          likeCard
// @Summary     Like a card
// @Description Adds the authenticated user to the card's likes set. Liking twice is a no-op.
// @Tags        Cards
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Card ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Card
// @Failure     400  {object}  handlers.ErrorResponse "Malformed id"
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse "Card not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /cards/{id}/likes [put]
func (h *Handlers) LikeCard(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadID))
		return
	}
	card, err := h.cardSvc.Like(c.Request.Context(), userID(c), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, card)
}

// DislikeCard godoc
// @ID          dislikeCard
// @Summary     Remove a like from a card
// @Description Removes the authenticated user from the card's likes set. Removing an absent like is a no-op.
// @Tags        Cards
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Card ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Card
// @Failure     400  {object}  handlers.ErrorResponse "Malformed id"
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse "Card not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /cards/{id}/likes [delete]
func (h *Handlers) DislikeCard(c *gin.Context) {
	id := c.Param("id")
	if !validID(id) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadID))
		return
	}
	card, err := h.cardSvc.Dislike(c.Request.Context(), userID(c), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, card)
}
