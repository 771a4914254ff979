package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"team-trivia-service/internal/domain"
	"team-trivia-service/internal/game"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service        *game.GameService
	defaultPerTeam int
	upgrader       websocket.Upgrader
}

func NewWSHandler(service *game.GameService, defaultPerTeam int) *WSHandler {
	return &WSHandler{
		service:        service,
		defaultPerTeam: defaultPerTeam,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	BankID  string   `json:"bankId"`
	Teams   []string `json:"teams"`
	PerTeam int      `json:"perTeam"`
}

type answerPayload struct {
	TeamID     int    `json:"teamId"`
	QuestionID int    `json:"questionId"`
	Option     string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the
// game use cases. One connection drives one game, identified by the
// gameId query parameter; the presentation layer starts the game, submits
// or skips answers for the active turn, and reads results when done.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	var cancelSub func()
	var pumpDone chan struct{}

	// subscribe pumps standings broadcasts onto the send channel; it is
	// started once a session exists for the connection's game.
	subscribe := func() {
		if cancelSub != nil {
			return
		}
		updates, cancel, err := h.service.Subscribe(r.Context(), gameID)
		if err != nil {
			send <- errorMessage(err)
			return
		}
		cancelSub = cancel
		pumpDone = make(chan struct{})
		go func() {
			defer close(pumpDone)
			for {
				select {
				case update, ok := <-updates:
					if !ok {
						return
					}
					select {
					case send <- outboundMessage[any]{Type: "scoreboard", Payload: update}:
					case <-closeSignals:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
	}

	// Resuming a known game gets the current snapshot right away.
	if snap, err := h.service.State(r.Context(), gameID); err == nil {
		send <- outboundMessage[any]{Type: "state", Payload: snap}
		subscribe()
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage(errors.New("invalid start payload"))
				continue
			}
			perTeam := payload.PerTeam
			if perTeam == 0 {
				perTeam = h.defaultPerTeam
			}
			snap, err := h.service.CreateGame(r.Context(), gameID, payload.BankID, payload.Teams, perTeam)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "started", Payload: snap}
			subscribe()
		case "answer", "skip":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage(errors.New("invalid answer payload"))
				continue
			}
			result, board, err := h.service.Submit(r.Context(), gameID, domain.AnswerSubmission{
				TeamID:     payload.TeamID,
				QuestionID: payload.QuestionID,
				Option:     payload.Option,
				Skip:       inbound.Type == "skip",
			})
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: result}
			send <- outboundMessage[any]{Type: "scoreboard", Payload: board}
			if result.Complete {
				send <- outboundMessage[any]{Type: "gameComplete", Payload: board}
			}
		case "results":
			outcome, err := h.service.Results(r.Context(), gameID)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "results", Payload: outcome}
		case "abandon":
			h.service.Abandon(r.Context(), gameID)
			// Drop the subscription so a later start on this connection
			// attaches to the new session instead of the discarded one.
			if cancelSub != nil {
				cancelSub()
				<-pumpDone
				cancelSub = nil
				pumpDone = nil
			}
			send <- outboundMessage[any]{Type: "abandoned", Payload: struct{}{}}
		default:
			send <- errorMessage(errors.New("unsupported message type"))
		}
	}

	close(closeSignals)
	if pumpDone != nil {
		<-pumpDone
	}
	if cancelSub != nil {
		cancelSub()
	}
	close(send)
	<-writerDone
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
