// Package pipeline orchestrates one user turn: persist the inbound message,
// classify it against the conversation history, optionally enrich the reply
// with external data, and persist the reply.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/qmuntal/stateless"

	"github.com/chatpipe-io/chatpipe/internal/classifier"
	"github.com/chatpipe-io/chatpipe/internal/domain"
	"github.com/chatpipe-io/chatpipe/internal/external"
	"github.com/chatpipe-io/chatpipe/internal/logger"
	"github.com/chatpipe-io/chatpipe/internal/store"
)

// FallbackContent is persisted as the bot reply whenever any pipeline stage
// fails. The caller of Submit never sees a mid-pipeline error directly.
const FallbackContent = "I'm sorry, I encountered an error processing your request. Please try again."

// FSM states
type fsmState stateless.State

var (
	stateStoringInbound fsmState = "StoringInbound"
	stateClassifying    fsmState = "Classifying"
	stateEnriching      fsmState = "Enriching"
	stateStoringReply   fsmState = "StoringReply"
	stateDone           fsmState = "Done"     // terminal: reply persisted
	stateFallback       fsmState = "Fallback" // terminal: fallback reply persisted
)

// FSM triggers
type fsmTrigger stateless.Trigger

var (
	triggerSubmit          fsmTrigger = "Submit"
	triggerInboundStored   fsmTrigger = "InboundStored"
	triggerNeedsEnrichment fsmTrigger = "NeedsEnrichment"
	triggerReplyReady      fsmTrigger = "ReplyReady"
	triggerReplyStored     fsmTrigger = "ReplyStored"
	triggerErrorOccurred   fsmTrigger = "ErrorOccurred"
)

// Pipeline wires the store, the classifier and the external data client.
type Pipeline struct {
	store      *store.Store
	classifier classifier.Classifier
	external   external.Client
}

// New creates a pipeline over the given collaborators.
func New(st *store.Store, cls classifier.Classifier, ext external.Client) *Pipeline {
	return &Pipeline{store: st, classifier: cls, external: ext}
}

// Submit runs one user turn to completion and returns the persisted bot
// reply. Any stage failure is absorbed into a persisted fallback reply; a
// non-nil error is returned only when even the fallback cannot be persisted
// (the conversation does not exist).
func (p *Pipeline) Submit(ctx context.Context, conversationID, text string) (*domain.Message, error) {
	type submitContext struct {
		history   []classifier.Turn
		dataType  string
		params    map[string]any
		replyText string
		botMsg    *domain.Message
		lastError error
	}
	sc := &submitContext{}

	fsm := stateless.NewStateMachine(stateStoringInbound)

	fsm.Configure(stateStoringInbound).
		PermitReentry(triggerSubmit). // reentry runs OnEntry on the initial fire
		OnEntry(func(ctx context.Context, _ ...any) error {
			if _, err := p.store.AddMessage(conversationID, text, domain.SenderUser); err != nil {
				sc.lastError = err
				return fsm.FireCtx(ctx, triggerErrorOccurred)
			}
			// Full history, inbound message included, mapped to classifier roles.
			for _, msg := range p.store.GetMessages(conversationID) {
				role := classifier.RoleUser
				if msg.Sender == domain.SenderBot {
					role = classifier.RoleAssistant
				}
				sc.history = append(sc.history, classifier.Turn{Role: role, Content: msg.Content})
			}
			return fsm.FireCtx(ctx, triggerInboundStored)
		}).
		Permit(triggerInboundStored, stateClassifying).
		Permit(triggerErrorOccurred, stateFallback)

	fsm.Configure(stateClassifying).
		OnEntry(func(ctx context.Context, _ ...any) error {
			result, err := p.classifier.Classify(ctx, text, sc.history)
			if err != nil {
				sc.lastError = err
				return fsm.FireCtx(ctx, triggerErrorOccurred)
			}
			sc.replyText = result.Content
			logger.L.Debug("message classified",
				"conversation_id", conversationID,
				"intent", result.Intent,
				"confidence", result.Confidence)

			if result.Intent == classifier.IntentQuestion {
				if dataType, params, ok := result.ExternalDataHint(); ok {
					sc.dataType = dataType
					sc.params = params
					return fsm.FireCtx(ctx, triggerNeedsEnrichment)
				}
			}
			return fsm.FireCtx(ctx, triggerReplyReady)
		}).
		Permit(triggerNeedsEnrichment, stateEnriching).
		Permit(triggerReplyReady, stateStoringReply).
		Permit(triggerErrorOccurred, stateFallback)

	fsm.Configure(stateEnriching).
		OnEntry(func(ctx context.Context, _ ...any) error {
			// A failed fetch means "no enrichment", not an error.
			resp := p.external.Fetch(ctx, sc.dataType, sc.params)
			if resp.Success && resp.Data != nil {
				sc.replyText = enhanceContent(sc.replyText, resp.Data)
			} else {
				logger.L.Warn("external data unavailable; replying without enrichment",
					"conversation_id", conversationID,
					"dataType", sc.dataType,
					"error", resp.Error)
			}
			return fsm.FireCtx(ctx, triggerReplyReady)
		}).
		Permit(triggerReplyReady, stateStoringReply)

	fsm.Configure(stateStoringReply).
		OnEntry(func(ctx context.Context, _ ...any) error {
			msg, err := p.store.AddMessage(conversationID, sc.replyText, domain.SenderBot)
			if err != nil {
				sc.lastError = err
				return fsm.FireCtx(ctx, triggerErrorOccurred)
			}
			sc.botMsg = msg
			return fsm.FireCtx(ctx, triggerReplyStored)
		}).
		Permit(triggerReplyStored, stateDone).
		Permit(triggerErrorOccurred, stateFallback)

	fsm.Configure(stateFallback).
		OnEntry(func(_ context.Context, _ ...any) error {
			logger.L.Error("pipeline stage failed; persisting fallback reply",
				"conversation_id", conversationID,
				"error", sc.lastError)
			msg, err := p.store.AddMessage(conversationID, FallbackContent, domain.SenderBot)
			if err != nil {
				sc.lastError = fmt.Errorf("persist fallback reply: %w", err)
				return nil
			}
			sc.botMsg = msg
			return nil
		})

	// The initial fire re-enters StoringInbound, whose OnEntry kicks off the
	// chain; queued transitions run to a terminal state before this returns.
	if err := fsm.FireCtx(ctx, triggerSubmit); err != nil {
		if sc.botMsg != nil {
			return sc.botMsg, nil
		}
		if sc.lastError != nil {
			return nil, sc.lastError
		}
		return nil, fmt.Errorf("pipeline error: %w", err)
	}

	currentState, err := fsm.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline internal error: %w", err)
	}

	switch currentState {
	case stateDone, stateFallback:
		if sc.botMsg != nil {
			return sc.botMsg, nil
		}
		if sc.lastError != nil {
			return nil, sc.lastError
		}
		return nil, errors.New("pipeline finished without a persisted reply")
	default:
		if sc.lastError != nil {
			return nil, sc.lastError
		}
		return nil, fmt.Errorf("pipeline ended in an unexpected state: %v", currentState)
	}
}
