// Package stream serves one conversation turn over Server-Sent Events,
// so browsers on slow links see the reply as it is generated.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"

	"github.com/frontdesk-ai/frontdesk/backend/internal/model/call"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/ai"
	"github.com/frontdesk-ai/frontdesk/backend/internal/service/convo"
	"github.com/frontdesk-ai/frontdesk/backend/pkg/utils"
)

// Streamer is the streaming face of the completion client.
type Streamer interface {
	Stream(ctx context.Context, systemPrompt string, history []call.Turn, userMessage string) (*schema.StreamReader[*schema.Message], error)
}

// Handler manages streaming replies for conversation turns.
type Handler struct {
	streamer Streamer
	engine   *convo.Engine
}

// New creates a stream handler. streamer may be nil when no model is
// configured; every streamed turn then resolves to the fallback reply.
func New(streamer Streamer, engine *convo.Engine) *Handler {
	return &Handler{
		streamer: streamer,
		engine:   engine,
	}
}

// Response is one SSE frame of a streamed turn.
type Response struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
}

// HandleStreamRequest streams one turn for the session. Whatever text
// the caller ultimately hears, streamed or fallback, is appended to
// history as the turn's assistant reply before the stream closes.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	sess, err := h.engine.Session(ctx, sessionID)
	if err != nil {
		return err
	}

	utils.SetupSSEHeaders(w)

	h.send(w, flusher, Response{Event: "start", SessionID: sessionID})

	reply := h.streamReply(ctx, w, flusher, sess, userMessage)

	h.engine.FinalizeExchange(ctx, sessionID, userMessage, reply)

	h.send(w, flusher, Response{Event: "message", SessionID: sessionID, Content: reply})
	h.send(w, flusher, Response{Event: "end", SessionID: sessionID, Finished: true})

	log.Printf("[stream] completed turn for session=%s", sessionID)
	return nil
}

// streamReply drains the model stream, forwarding deltas. Any failure,
// before or mid-stream, resolves to the fallback reply; the partial
// streamed text is superseded by the final message event.
func (h *Handler) streamReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sess call.Session, userMessage string) string {
	if h.streamer == nil {
		return convo.FallbackReply(&ai.Failure{Kind: ai.FailureUnavailable})
	}

	streamReader, err := h.streamer.Stream(ctx, ai.ReceptionistPrompt(sess.CallerInfo), sess.History, userMessage)
	if err != nil {
		log.Printf("[stream] completion failed for session=%s kind=%s: %v", sess.ID, ai.KindOf(err), err)
		return convo.FallbackReply(err)
	}
	defer streamReader.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := streamReader.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			log.Printf("[stream] recv failed for session=%s: %v", sess.ID, recvErr)
			return convo.FallbackReply(recvErr)
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.send(w, flusher, Response{Event: "delta", SessionID: sess.ID, Content: chunk.Content})
		}
	}

	full, err := schema.ConcatMessages(chunks)
	if err != nil || full == nil || full.Content == "" {
		log.Printf("[stream] empty or unmergeable reply for session=%s: %v", sess.ID, err)
		return convo.FallbackReply(&ai.Failure{Kind: ai.FailureBadResponse, Err: err})
	}
	return full.Content
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response Response) {
	utils.SendSSEChunk(w, flusher, response)
}
