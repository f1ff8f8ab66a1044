package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/mkovac21/accountd/internal/service"
	"github.com/mkovac21/accountd/internal/transport/http/middleware"
	"github.com/mkovac21/accountd/pkg/imaging"
)

// maxAvatarSize caps uploads at 2 MiB before any decoding happens.
const maxAvatarSize = 2 << 20

var avatarExtRegex = regexp.MustCompile(`\.(img|png|jpeg|jpg)$`)

type AvatarHandler struct {
	userService *service.UserService
}

func NewAvatarHandler(userService *service.UserService) *AvatarHandler {
	return &AvatarHandler{userService: userService}
}

func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)

	file, header, err := r.FormFile("avatar")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusBadRequest, "FILE_TOO_LARGE", "Avatar must be at most 2MB")
		} else {
			writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Missing avatar file")
		}
		return
	}
	defer file.Close()

	if !avatarExtRegex.MatchString(strings.ToLower(header.Filename)) {
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Invalid format files uploaded")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Could not read avatar file")
		return
	}

	user := middleware.GetUser(r.Context())

	if err := h.userService.SetAvatar(r.Context(), user, raw); err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Invalid format files uploaded")
		} else {
			log.Printf("ERROR upload avatar: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *AvatarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	if err := h.userService.ClearAvatar(r.Context(), user); err != nil {
		if errors.Is(err, service.ErrNoAvatar) {
			writeError(w, http.StatusBadRequest, "NO_AVATAR", "You dont have avatar yet")
		} else {
			log.Printf("ERROR delete avatar: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Get is public. An unknown id and an account without an avatar both 404
// with nothing in the body.
func (h *AvatarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	avatar, err := h.userService.GetAvatar(r.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Printf("ERROR get avatar: %v", err)
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(avatar)
}
