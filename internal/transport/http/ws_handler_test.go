package http

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"team-trivia-service/internal/domain"
	"team-trivia-service/internal/game"
	"team-trivia-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

type testSnapshot struct {
	Teams []struct {
		ID        int `json:"id"`
		Questions []struct {
			ID       int `json:"id"`
			Template struct {
				CorrectAnswer string `json:"correctAnswer"`
			} `json:"template"`
		} `json:"questions"`
		CurrentQuestionIndex int `json:"currentQuestionIndex"`
	} `json:"teams"`
	Active *struct {
		TeamID     int `json:"teamId"`
		QuestionID int `json:"questionId"`
	} `json:"active"`
	Complete bool `json:"complete"`
}

func TestWebSocketGameFlow(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?gameId=game-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	start := map[string]any{
		"type": "start",
		"payload": map[string]any{
			"bankId":  "bank-1",
			"teams":   []string{"Red", "Blue"},
			"perTeam": 1,
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write start: %v", err)
	}

	var snap testSnapshot
	readUntil(conn, t, "started", &snap)
	if len(snap.Teams) != 2 || snap.Active == nil {
		t.Fatalf("unexpected started snapshot %+v", snap)
	}

	// Both teams answer their single question correctly.
	for turn := 0; turn < 2; turn++ {
		option := correctOptionFor(t, snap, snap.Active.TeamID)
		answer := map[string]any{
			"type": "answer",
			"payload": map[string]any{
				"teamId":     snap.Active.TeamID,
				"questionId": snap.Active.QuestionID,
				"option":     option,
			},
		}
		if err := conn.WriteJSON(answer); err != nil {
			t.Fatalf("write answer: %v", err)
		}

		var result domain.AnswerResult
		readUntil(conn, t, "answerResult", &result)
		if !result.Correct || result.TeamScore != 1 {
			t.Fatalf("expected correct answer worth 1 point, got %+v", result)
		}

		if result.Complete {
			if result.Cue != domain.CueGameComplete {
				t.Fatalf("expected game-complete cue, got %q", result.Cue)
			}
			break
		}
		if result.Cue != domain.CueCorrect {
			t.Fatalf("expected correct cue, got %q", result.Cue)
		}
		snap.Active.TeamID = 2
	}

	var board domain.Standings
	readUntil(conn, t, "gameComplete", &board)
	if !board.Complete || board.AnsweredTotal != 2 {
		t.Fatalf("unexpected final standings %+v", board)
	}

	if err := conn.WriteJSON(map[string]any{"type": "results", "payload": map[string]any{}}); err != nil {
		t.Fatalf("write results: %v", err)
	}
	var outcome domain.Outcome
	readUntil(conn, t, "results", &outcome)
	if len(outcome.Winners) != 2 {
		t.Fatalf("both teams scored 1, expected a tie, got %+v", outcome.Winners)
	}
}

func TestWebSocketRejectsMissingGameID(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without gameId, got %d", resp.StatusCode)
	}
}

func TestWebSocketStartValidation(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?gameId=game-2"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	start := map[string]any{
		"type": "start",
		"payload": map[string]any{
			"bankId": "bank-1",
			"teams":  []string{"Solo"},
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write start: %v", err)
	}

	var payload struct {
		Message string `json:"message"`
	}
	readUntil(conn, t, "error", &payload)
	if payload.Message == "" {
		t.Fatalf("expected error message for single-team start")
	}
}

func TestWebSocketAbandonThenRestart(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?gameId=game-3"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	start := map[string]any{
		"type": "start",
		"payload": map[string]any{
			"bankId":  "bank-1",
			"teams":   []string{"Red", "Blue"},
			"perTeam": 1,
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write start: %v", err)
	}
	var snap testSnapshot
	readUntil(conn, t, "started", &snap)
	// Consume the primed standings from the first subscription.
	var board domain.Standings
	readUntil(conn, t, "scoreboard", &board)

	if err := conn.WriteJSON(map[string]any{"type": "abandon", "payload": map[string]any{}}); err != nil {
		t.Fatalf("write abandon: %v", err)
	}
	var ack struct{}
	readUntil(conn, t, "abandoned", &ack)

	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write restart: %v", err)
	}
	readUntil(conn, t, "started", &snap)
	if snap.Complete || snap.Active == nil {
		t.Fatalf("restarted game should be active, got %+v", snap)
	}

	// The new session's subscription must prime a fresh scoreboard; a
	// connection still pumping the discarded session would deliver nothing.
	readUntil(conn, t, "scoreboard", &board)
	if board.QuestionsTotal != 2 || board.AnsweredTotal != 0 {
		t.Fatalf("expected fresh standings for restarted game, got %+v", board)
	}
}

func newTestServer() *httptest.Server {
	store := memory.NewGameStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(sampleBanks()), time.Minute)
	service := game.NewGameServiceWithRand(store, banks, rand.New(rand.NewSource(5)))
	wsHandler := NewWSHandler(service, 3)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	return httptest.NewServer(mux)
}

func sampleBanks() map[string]domain.QuestionBank {
	return map[string]domain.QuestionBank{
		"bank-1": {
			ID: "bank-1",
			Questions: []domain.QuestionTemplate{
				{
					Prompt:        "What is 2 + 2?",
					Options:       []string{"3", "4", "5", "6"},
					CorrectAnswer: "4",
				},
				{
					Prompt:        "What is 1 + 1?",
					Options:       []string{"1", "2", "3", "4"},
					CorrectAnswer: "2",
				},
			},
		},
	}
}

// readUntil skips interleaved messages (e.g. scoreboard broadcasts) until
// one of the wanted type arrives, then decodes its payload into out.
func readUntil(conn *websocket.Conn, t *testing.T, want string, out any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 20; i++ {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json: %v", err)
		}
		if msg.Type != want {
			continue
		}
		if err := json.Unmarshal(msg.Payload, out); err != nil {
			t.Fatalf("decode %s payload: %v", want, err)
		}
		return
	}
	t.Fatalf("never received %q", want)
}

func correctOptionFor(t *testing.T, snap testSnapshot, teamID int) string {
	t.Helper()
	for _, team := range snap.Teams {
		if team.ID == teamID {
			return team.Questions[0].Template.CorrectAnswer
		}
	}
	t.Fatalf("team %d not in snapshot", teamID)
	return ""
}
