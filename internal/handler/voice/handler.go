package voice

import (
	"encoding/base64"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dukanx/vaani/internal/model/billing"
	"github.com/dukanx/vaani/internal/service/dialogue"
	"github.com/dukanx/vaani/internal/service/speech"
	"github.com/dukanx/vaani/pkg/utils"
)

// Handler runs the full voice loop over HTTP: audio in, spoken reply out.
type Handler struct {
	manager     *dialogue.Manager
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
}

// New creates the voice handler. The synthesizer may be nil, in which case
// responses carry text only.
func New(manager *dialogue.Manager, transcriber speech.Transcriber, synthesizer speech.Synthesizer) *Handler {
	return &Handler{
		manager:     manager,
		transcriber: transcriber,
		synthesizer: synthesizer,
	}
}

// RegisterRoutes registers voice routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/voice", func(vr chi.Router) {
		vr.Post("/turn", h.handleTurn)

		ws := NewWebSocketHandler(h.manager, h.transcriber, h.synthesizer)
		vr.Get("/ws/{userId}", ws.handleWebSocket)
	})
}

type voiceTurnResponse struct {
	Transcript string           `json:"transcript"`
	Language   string           `json:"language,omitempty"`
	Text       string           `json:"text"`
	Action     billing.Action   `json:"action"`
	Session    *billing.Session `json:"session,omitempty"`
	Audio      string           `json:"audio,omitempty"`
	Format     string           `json:"format,omitempty"`
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	userID := r.FormValue("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	language := r.FormValue("language")
	format := inferAudioFormat(header.Filename)

	transcript, err := h.transcriber.Transcribe(r.Context(), file, format, language)
	if err != nil {
		log.Printf("[voice] transcription failed for user=%s: %v", userID, err)
		utils.RespondError(w, http.StatusInternalServerError, "speech recognition failed")
		return
	}
	if strings.TrimSpace(transcript.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "could not hear anything in the audio")
		return
	}

	result := h.manager.Converse(r.Context(), userID, transcript.Text)

	resp := voiceTurnResponse{
		Transcript: transcript.Text,
		Language:   transcript.Language,
		Text:       result.Text,
		Action:     result.Action,
		Session:    result.Payload,
	}

	if h.synthesizer != nil {
		voiceName := speech.VoiceFor(transcript.Language)
		audio, err := h.synthesizer.Synthesize(r.Context(), result.Text, voiceName)
		if err != nil {
			// A reply without audio is still a usable turn.
			log.Printf("[voice] synthesis failed for user=%s: %v", userID, err)
		} else {
			resp.Audio = base64.StdEncoding.EncodeToString(audio.Data)
			resp.Format = audio.Format
		}
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

func inferAudioFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "mp3"
	case ".webm":
		return "webm"
	case ".m4a":
		return "m4a"
	case ".ogg":
		return "ogg"
	default:
		return "wav"
	}
}
