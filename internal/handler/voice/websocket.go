package voice

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dukanx/vaani/internal/model/billing"
	"github.com/dukanx/vaani/internal/service/dialogue"
	"github.com/dukanx/vaani/internal/service/speech"
)

// WebSocketHandler keeps a live voice conversation open on one socket.
type WebSocketHandler struct {
	manager     *dialogue.Manager
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler creates the websocket voice handler.
func NewWebSocketHandler(manager *dialogue.Manager, transcriber speech.Transcriber, synthesizer speech.Synthesizer) *WebSocketHandler {
	return &WebSocketHandler{
		manager:     manager,
		transcriber: transcriber,
		synthesizer: synthesizer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type audioMessage struct {
	AudioData []byte `json:"audioData"`
	Format    string `json:"format"`
	Language  string `json:"language"`
}

type textMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type replyData struct {
	Transcript string           `json:"transcript,omitempty"`
	Text       string           `json:"text"`
	Action     billing.Action   `json:"action"`
	Session    *billing.Session `json:"session,omitempty"`
	Audio      string           `json:"audio,omitempty"`
	Format     string           `json:"format,omitempty"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[voice] websocket opened for user=%s", userID)
	defer log.Printf("[voice] websocket closed for user=%s", userID)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[voice] websocket read error for user=%s: %v", userID, err)
			}
			return
		}

		switch msg.Type {
		case "audio":
			h.handleAudioMessage(r, conn, userID, msg.Data)
		case "text":
			h.handleTextMessage(r, conn, userID, msg.Data)
		case "ping":
			h.send(conn, outgoingMessage{Type: "pong", Timestamp: time.Now().UnixMilli()})
		default:
			h.sendError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (h *WebSocketHandler) handleAudioMessage(r *http.Request, conn *websocket.Conn, userID string, data json.RawMessage) {
	var audio audioMessage
	if err := json.Unmarshal(data, &audio); err != nil {
		h.sendError(conn, "invalid audio message")
		return
	}
	if len(audio.AudioData) == 0 {
		h.sendError(conn, "audioData is required")
		return
	}

	format := audio.Format
	if format == "" {
		format = "wav"
	}

	transcript, err := h.transcriber.Transcribe(r.Context(), bytes.NewReader(audio.AudioData), format, audio.Language)
	if err != nil {
		log.Printf("[voice] transcription failed for user=%s: %v", userID, err)
		h.sendError(conn, "speech recognition failed")
		return
	}
	if transcript.Text == "" {
		h.sendError(conn, "could not hear anything in the audio")
		return
	}

	h.send(conn, outgoingMessage{
		Type:      "transcript",
		Data:      transcript,
		Timestamp: time.Now().UnixMilli(),
	})

	h.respond(r, conn, userID, transcript.Text, transcript.Language)
}

func (h *WebSocketHandler) handleTextMessage(r *http.Request, conn *websocket.Conn, userID string, data json.RawMessage) {
	var text textMessage
	if err := json.Unmarshal(data, &text); err != nil {
		h.sendError(conn, "invalid text message")
		return
	}
	if text.Text == "" {
		h.sendError(conn, "text is required")
		return
	}

	h.respond(r, conn, userID, text.Text, "")
}

func (h *WebSocketHandler) respond(r *http.Request, conn *websocket.Conn, userID, text, language string) {
	result := h.manager.Converse(r.Context(), userID, text)

	reply := replyData{
		Transcript: text,
		Text:       result.Text,
		Action:     result.Action,
		Session:    result.Payload,
	}

	if h.synthesizer != nil {
		voiceName := speech.VoiceFor(language)
		audio, err := h.synthesizer.Synthesize(r.Context(), result.Text, voiceName)
		if err != nil {
			log.Printf("[voice] synthesis failed for user=%s: %v", userID, err)
		} else {
			reply.Audio = base64.StdEncoding.EncodeToString(audio.Data)
			reply.Format = audio.Format
		}
	}

	h.send(conn, outgoingMessage{
		Type:      "reply",
		Data:      reply,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg outgoingMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[voice] websocket write failed: %v", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"error": message},
		Timestamp: time.Now().UnixMilli(),
	})
}
