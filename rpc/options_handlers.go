package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"quorum/core/types"
	"quorum/crypto"
	"quorum/native/options"
)

const (
	codeOptionsInvalidParams = -32021
	codeOptionsNotFound      = -32022
	codeOptionsForbidden     = -32023
	codeOptionsConflict      = -32024
	codeOptionsInternal      = -32025
)

type optionsCreateParams struct {
	Holder          string `json:"holder"`
	OptionID        string `json:"optionId"`
	EventName       string `json:"eventName"`
	EventDate       string `json:"eventDate"`
	TicketType      string `json:"ticketType"`
	Quantity        uint8  `json:"quantity"`
	PremiumLamports uint64 `json:"premiumLamports"`
	Expiry          int64  `json:"expiry"`
	VenueRoyaltyBps uint16 `json:"venueRoyaltyBps"`
}

type optionsIDParams struct {
	OptionID string `json:"optionId"`
}

type optionsExerciseParams struct {
	OptionID string `json:"optionId"`
	Caller   string `json:"caller"`
}

type balanceParams struct {
	Address string `json:"address"`
}

type optionsCreateResult struct {
	ID string `json:"id"`
}

type optionJSON struct {
	ID              string `json:"id"`
	OptionID        string `json:"optionId"`
	EventName       string `json:"eventName"`
	EventDate       string `json:"eventDate"`
	TicketType      string `json:"ticketType"`
	Quantity        uint8  `json:"quantity"`
	PremiumLamports uint64 `json:"premiumLamports"`
	Holder          string `json:"holder"`
	Expiry          int64  `json:"expiry"`
	CreatedAt       int64  `json:"createdAt"`
	VenueRoyaltyBps uint16 `json:"venueRoyaltyBps"`
	Status          string `json:"status"`
	EscrowLamports  string `json:"escrowLamports"`
}

type balanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

func (s *Server) handleOptionsCreate(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", "exactly one parameter object expected")
		return
	}
	var params optionsCreateParams
	if err := json.Unmarshal(req.Params[0], &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	holder, err := parseAddress(params.Holder)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	if strings.TrimSpace(params.OptionID) == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", "optionId required")
		return
	}
	opt, err := s.node.OptionsCreate(holder, options.CreateParams{
		OptionID:        params.OptionID,
		EventName:       params.EventName,
		EventDate:       params.EventDate,
		TicketType:      params.TicketType,
		Quantity:        params.Quantity,
		PremiumLamports: params.PremiumLamports,
		Expiry:          params.Expiry,
		VenueRoyaltyBps: params.VenueRoyaltyBps,
	})
	if err != nil {
		writeOptionsError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, optionsCreateResult{ID: formatOptionAddress(opt.ID)})
}

func (s *Server) handleOptionsExercise(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", "exactly one parameter object expected")
		return
	}
	var params optionsExerciseParams
	if err := json.Unmarshal(req.Params[0], &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	id, err := parseOptionID(params.OptionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.OptionsExercise(id, caller); err != nil {
		writeOptionsError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleOptionsExpire(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", "exactly one parameter object expected")
		return
	}
	var params optionsIDParams
	if err := json.Unmarshal(req.Params[0], &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	id, err := parseOptionID(params.OptionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.OptionsExpire(id); err != nil {
		writeOptionsError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleOptionsGet(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", "exactly one parameter object expected")
		return
	}
	var params optionsIDParams
	if err := json.Unmarshal(req.Params[0], &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	id, err := parseOptionID(params.OptionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	opt, err := s.node.OptionsGet(id)
	if err != nil {
		writeOptionsError(w, req.ID, err)
		return
	}
	escrow, err := s.node.OptionsEscrowBalance(id)
	if err != nil {
		writeOptionsError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, optionJSON{
		ID:              formatOptionAddress(opt.ID),
		OptionID:        opt.OptionID,
		EventName:       opt.EventName,
		EventDate:       opt.EventDate,
		TicketType:      opt.TicketType,
		Quantity:        opt.Quantity,
		PremiumLamports: opt.PremiumLamports,
		Holder:          crypto.MustNewAddress(opt.Holder[:]).String(),
		Expiry:          opt.Expiry,
		CreatedAt:       opt.CreatedAt,
		VenueRoyaltyBps: opt.VenueRoyaltyBps,
		Status:          opt.Status.String(),
		EscrowLamports:  escrow.String(),
	})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", "exactly one parameter object expected")
		return
	}
	var params balanceParams
	if err := json.Unmarshal(req.Params[0], &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", err.Error())
		return
	}
	acc, err := s.node.GetAccount(addr[:])
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "internal_error", err.Error())
		return
	}
	writeResult(w, req.ID, balanceResult{
		Address: crypto.MustNewAddress(addr[:]).String(),
		Balance: acc.Balance.String(),
		Nonce:   acc.Nonce,
	})
}

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if len(req.Params) != 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeOptionsInvalidParams, "invalid_params", "no parameters expected")
		return
	}
	evts := s.node.Events()
	if evts == nil {
		evts = []*types.Event{}
	}
	writeResult(w, req.ID, evts)
}

func parseAddress(addr string) ([20]byte, error) {
	var out [20]byte
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return out, errors.New("address required")
	}
	decoded, err := crypto.DecodeAddress(trimmed)
	if err != nil {
		return out, err
	}
	copy(out[:], decoded.Bytes())
	return out, nil
}

// parseOptionID resolves both identifier forms: the raw business identifier
// and the 0x-prefixed 32-byte derived address.
func parseOptionID(id string) ([32]byte, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return [32]byte{}, errors.New("optionId required")
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		cleaned := trimmed[2:]
		if len(cleaned) != 64 {
			return [32]byte{}, errors.New("derived id must be 32 bytes")
		}
		raw, err := hex.DecodeString(cleaned)
		if err != nil {
			return [32]byte{}, err
		}
		var out [32]byte
		copy(out[:], raw)
		return out, nil
	}
	if len(trimmed) > options.MaxOptionIDLen {
		return [32]byte{}, options.ErrStringTooLong
	}
	return options.DeriveID(trimmed), nil
}

func formatOptionAddress(id [32]byte) string {
	return "0x" + hex.EncodeToString(id[:])
}

func writeOptionsError(w http.ResponseWriter, id interface{}, err error) {
	if err == nil {
		return
	}
	status := http.StatusInternalServerError
	code := codeOptionsInternal
	message := "internal_error"
	switch {
	case errors.Is(err, options.ErrOptionNotFound):
		status = http.StatusNotFound
		code = codeOptionsNotFound
		message = "not_found"
	case errors.Is(err, options.ErrUnauthorizedHolder):
		status = http.StatusForbidden
		code = codeOptionsForbidden
		message = "forbidden"
	case errors.Is(err, options.ErrOptionExists),
		errors.Is(err, options.ErrNotActive),
		errors.Is(err, options.ErrOptionExpired),
		errors.Is(err, options.ErrNotExpiredYet),
		errors.Is(err, options.ErrInsufficientFunds):
		status = http.StatusConflict
		code = codeOptionsConflict
		message = "conflict"
	case errors.Is(err, options.ErrInvalidQuantity),
		errors.Is(err, options.ErrInvalidPremium),
		errors.Is(err, options.ErrStringTooLong),
		errors.Is(err, options.ErrInvalidRoyalty),
		errors.Is(err, options.ErrExpiryInPast),
		errors.Is(err, options.ErrAddressMismatch):
		status = http.StatusBadRequest
		code = codeOptionsInvalidParams
		message = "invalid_params"
	}
	writeError(w, status, id, code, message, err.Error())
}
