// Package rpc provides the JSON-RPC server for the drop simulator.
package rpc

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stable-net/nftdrop-go/pkg/backend"
	"github.com/stable-net/nftdrop-go/pkg/sale"
)

// JSON-RPC error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeExecution      = -32000
)

// Version information.
const (
	ClientVersion = "nftdrop-go/v0.1.0"
)

// Request represents a JSON-RPC request.
type Request struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response represents a JSON-RPC response.
type Response struct {
	Jsonrpc string       `json:"jsonrpc"`
	ID      interface{}  `json:"id"`
	Result  interface{}  `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ErrorObject represents a JSON-RPC error.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server exposes the drop backend over JSON-RPC 2.0.
type Server struct {
	backend *backend.Backend
}

// NewServer creates a new RPC server over a backend.
func NewServer(b *backend.Backend) *Server {
	return &Server{backend: b}
}

// ServeHTTP handles HTTP requests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, nil, ErrCodeParseError, "Failed to read request body")
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, nil, ErrCodeParseError, "Parse error")
		return
	}

	result, rpcErr := s.handleMethod(req.Method, req.Params)
	if rpcErr != nil {
		s.writeError(w, req.ID, rpcErr.Code, rpcErr.Message)
		return
	}

	s.writeResult(w, req.ID, result)
}

func (s *Server) handleMethod(method string, params json.RawMessage) (interface{}, *ErrorObject) {
	switch method {
	// drop_* methods
	case "drop_whitelistMint":
		return s.dropWhitelistMint(params)
	case "drop_publicMint":
		return s.dropPublicMint(params)
	case "drop_isEligible":
		return s.dropIsEligible(params)
	case "drop_saleConfig":
		return s.dropSaleConfig()
	case "drop_claimed":
		return s.dropClaimed(params)
	case "drop_totalIssued":
		return s.dropTotalIssued()
	case "drop_ownerOf":
		return s.dropOwnerOf(params)
	case "drop_tokenURI":
		return s.dropTokenURI(params)
	case "drop_balanceOf":
		return s.dropBalanceOf(params)
	case "drop_allowlistRoot":
		return s.dropAllowlistRoot()
	case "drop_treasury":
		return s.dropTreasury()
	case "drop_paused":
		return s.dropPaused()
	case "drop_events":
		return s.dropEvents()

	// admin_* methods
	case "admin_setAllowlistRoot":
		return s.adminSetAllowlistRoot(params)
	case "admin_setTreasury":
		return s.adminSetTreasury(params)
	case "admin_setUnitPrice":
		return s.adminSetUnitPrice(params)
	case "admin_setMaxSupply":
		return s.adminSetMaxSupply(params)
	case "admin_setPerAddressCap":
		return s.adminSetPerAddressCap(params)
	case "admin_setPhase":
		return s.adminSetPhase(params)
	case "admin_switchToPublicPhase":
		return s.adminSwitchToPublicPhase(params)
	case "admin_addAdmins":
		return s.adminAddAdmins(params)
	case "admin_removeAdmins":
		return s.adminRemoveAdmins(params)
	case "admin_pause":
		return s.adminPause(params)
	case "admin_unpause":
		return s.adminUnpause(params)
	case "admin_setBaseURI":
		return s.adminSetBaseURI(params)
	case "admin_burn":
		return s.adminBurn(params)

	// dev_* methods
	case "dev_accounts":
		return s.devAccounts()
	case "dev_getBalance":
		return s.devGetBalance(params)
	case "dev_fundAccount":
		return s.devFundAccount(params)
	case "dev_snapshot":
		return s.devSnapshot()
	case "dev_revert":
		return s.devRevert(params)

	case "web3_clientVersion":
		return ClientVersion, nil

	default:
		return nil, &ErrorObject{Code: ErrCodeMethodNotFound, Message: "Method not found"}
	}
}

// mintParams carries a mint request. From identifies the caller
// (dev-node impersonation model); Value is the attached payment.
type mintParams struct {
	From     common.Address `json:"from"`
	Quantity hexutil.Uint64 `json:"quantity"`
	Value    *hexutil.Big   `json:"value"`
	Proof    []common.Hash  `json:"proof,omitempty"`
}

// mintResult reports the issued token IDs.
type mintResult struct {
	TokenIDs []hexutil.Uint64 `json:"tokenIds"`
}

func (s *Server) dropWhitelistMint(params json.RawMessage) (interface{}, *ErrorObject) {
	var p mintParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}

	ids, err := s.backend.Engine.WhitelistMint(p.From, uint64(p.Quantity), bigValue(p.Value), p.Proof)
	if err != nil {
		return nil, executionError(err)
	}
	return toMintResult(ids), nil
}

func (s *Server) dropPublicMint(params json.RawMessage) (interface{}, *ErrorObject) {
	var p mintParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}

	ids, err := s.backend.Engine.PublicMint(p.From, uint64(p.Quantity), bigValue(p.Value))
	if err != nil {
		return nil, executionError(err)
	}
	return toMintResult(ids), nil
}

type eligibilityParams struct {
	Address common.Address `json:"address"`
	Proof   []common.Hash  `json:"proof"`
}

func (s *Server) dropIsEligible(params json.RawMessage) (interface{}, *ErrorObject) {
	var p eligibilityParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	return s.backend.Engine.IsEligible(p.Proof, p.Address), nil
}

// saleConfigResult mirrors the published sale configuration.
type saleConfigResult struct {
	PresaleActive              bool           `json:"presaleActive"`
	PublicSaleActive           bool           `json:"publicSaleActive"`
	WhitelistUnitPrice         *hexutil.Big   `json:"whitelistUnitPrice"`
	PublicUnitPrice            *hexutil.Big   `json:"publicUnitPrice"`
	MaxSupply                  hexutil.Uint64 `json:"maxSupply"`
	MaxWhitelistMintPerAddress hexutil.Uint64 `json:"maxWhitelistMintPerAddress"`
	MaxPublicMintPerAddress    hexutil.Uint64 `json:"maxPublicMintPerAddress"`
}

func (s *Server) dropSaleConfig() (interface{}, *ErrorObject) {
	p := s.backend.Sale.Params()
	return &saleConfigResult{
		PresaleActive:              p.PresaleActive,
		PublicSaleActive:           p.PublicSaleActive,
		WhitelistUnitPrice:         (*hexutil.Big)(p.WhitelistUnitPrice),
		PublicUnitPrice:            (*hexutil.Big)(p.PublicUnitPrice),
		MaxSupply:                  hexutil.Uint64(p.MaxSupply),
		MaxWhitelistMintPerAddress: hexutil.Uint64(p.MaxWhitelistMintPerAddress),
		MaxPublicMintPerAddress:    hexutil.Uint64(p.MaxPublicMintPerAddress),
	}, nil
}

// claimedResult reports a single address's claim counters.
type claimedResult struct {
	Whitelist hexutil.Uint64 `json:"whitelist"`
	Public    hexutil.Uint64 `json:"public"`
}

func (s *Server) dropClaimed(params json.RawMessage) (interface{}, *ErrorObject) {
	var addr common.Address
	if err := unmarshalSingle(params, &addr); err != nil {
		return nil, err
	}
	return &claimedResult{
		Whitelist: hexutil.Uint64(s.backend.Claims.WhitelistClaimed(addr)),
		Public:    hexutil.Uint64(s.backend.Claims.PublicClaimed(addr)),
	}, nil
}

func (s *Server) dropTotalIssued() (interface{}, *ErrorObject) {
	return hexutil.Uint64(s.backend.Tokens.TotalIssued()), nil
}

func (s *Server) dropOwnerOf(params json.RawMessage) (interface{}, *ErrorObject) {
	var id hexutil.Uint64
	if err := unmarshalSingle(params, &id); err != nil {
		return nil, err
	}
	owner, err := s.backend.Tokens.OwnerOf(uint64(id))
	if err != nil {
		return nil, executionError(err)
	}
	return owner, nil
}

func (s *Server) dropTokenURI(params json.RawMessage) (interface{}, *ErrorObject) {
	var id hexutil.Uint64
	if err := unmarshalSingle(params, &id); err != nil {
		return nil, err
	}
	uri, err := s.backend.Tokens.TokenURI(uint64(id))
	if err != nil {
		return nil, executionError(err)
	}
	return uri, nil
}

func (s *Server) dropBalanceOf(params json.RawMessage) (interface{}, *ErrorObject) {
	var addr common.Address
	if err := unmarshalSingle(params, &addr); err != nil {
		return nil, err
	}
	return hexutil.Uint64(s.backend.Tokens.BalanceOf(addr)), nil
}

func (s *Server) dropAllowlistRoot() (interface{}, *ErrorObject) {
	return s.backend.Sale.AllowlistRoot(), nil
}

func (s *Server) dropTreasury() (interface{}, *ErrorObject) {
	return s.backend.Sale.Treasury(), nil
}

func (s *Server) dropPaused() (interface{}, *ErrorObject) {
	return s.backend.Access.IsPaused(), nil
}

func (s *Server) dropEvents() (interface{}, *ErrorObject) {
	return s.backend.Events.All(), nil
}

// adminParams is the common envelope for admin mutations.
type adminParams struct {
	From     common.Address   `json:"from"`
	Root     *common.Hash     `json:"root,omitempty"`
	Address  *common.Address  `json:"address,omitempty"`
	Class    string           `json:"class,omitempty"`
	Amount   *hexutil.Big     `json:"amount,omitempty"`
	Max      *hexutil.Uint64  `json:"max,omitempty"`
	Presale  *bool            `json:"presale,omitempty"`
	Public   *bool            `json:"public,omitempty"`
	Admins   []common.Address `json:"admins,omitempty"`
	URI      *string          `json:"uri,omitempty"`
	TokenID  *hexutil.Uint64  `json:"tokenId,omitempty"`
}

func (s *Server) adminSetAllowlistRoot(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if p.Root == nil {
		return nil, invalidParams("missing root")
	}
	if err := s.backend.Admin.SetAllowlistRoot(p.From, *p.Root); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminSetTreasury(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if p.Address == nil {
		return nil, invalidParams("missing address")
	}
	if err := s.backend.Admin.SetTreasury(p.From, *p.Address); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminSetUnitPrice(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if p.Amount == nil {
		return nil, invalidParams("missing amount")
	}
	if err := s.backend.Admin.SetUnitPrice(p.From, sale.Class(p.Class), p.Amount.ToInt()); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminSetMaxSupply(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if p.Max == nil {
		return nil, invalidParams("missing max")
	}
	if err := s.backend.Admin.SetMaxSupply(p.From, uint64(*p.Max)); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminSetPerAddressCap(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if p.Max == nil {
		return nil, invalidParams("missing max")
	}
	if err := s.backend.Admin.SetPerAddressCap(p.From, sale.Class(p.Class), uint64(*p.Max)); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminSetPhase(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if p.Presale == nil || p.Public == nil {
		return nil, invalidParams("missing presale/public flags")
	}
	if err := s.backend.Admin.SetPhase(p.From, *p.Presale, *p.Public); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminSwitchToPublicPhase(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if err := s.backend.Admin.SwitchToPublicPhase(p.From); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminAddAdmins(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if err := s.backend.Admin.AddAdmins(p.From, p.Admins); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminRemoveAdmins(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if err := s.backend.Admin.RemoveAdmins(p.From, p.Admins); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminPause(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if err := s.backend.Admin.Pause(p.From); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminUnpause(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if err := s.backend.Admin.Unpause(p.From); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminSetBaseURI(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if p.URI == nil {
		return nil, invalidParams("missing uri")
	}
	if err := s.backend.Admin.SetBaseURI(p.From, *p.URI); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) adminBurn(params json.RawMessage) (interface{}, *ErrorObject) {
	var p adminParams
	if err := unmarshalSingle(params, &p); err != nil {
		return nil, err
	}
	if p.TokenID == nil {
		return nil, invalidParams("missing tokenId")
	}
	if err := s.backend.Admin.Burn(p.From, uint64(*p.TokenID)); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) devAccounts() (interface{}, *ErrorObject) {
	return s.backend.AccountAddresses(), nil
}

func (s *Server) devGetBalance(params json.RawMessage) (interface{}, *ErrorObject) {
	var addr common.Address
	if err := unmarshalSingle(params, &addr); err != nil {
		return nil, err
	}
	return (*hexutil.Big)(s.backend.Bank.BalanceOf(addr)), nil
}

func (s *Server) devFundAccount(params json.RawMessage) (interface{}, *ErrorObject) {
	var raw []json.RawMessage
	if err := json.Unmarshal(params, &raw); err != nil || len(raw) != 2 {
		return nil, invalidParams("expected [address, amount]")
	}
	var addr common.Address
	if err := json.Unmarshal(raw[0], &addr); err != nil {
		return nil, invalidParams("invalid address")
	}
	var amount hexutil.Big
	if err := json.Unmarshal(raw[1], &amount); err != nil {
		return nil, invalidParams("invalid amount")
	}
	if err := s.backend.Bank.Fund(addr, amount.ToInt()); err != nil {
		return nil, executionError(err)
	}
	return true, nil
}

func (s *Server) devSnapshot() (interface{}, *ErrorObject) {
	return hexutil.Uint64(s.backend.Snapshots.Snapshot()), nil
}

func (s *Server) devRevert(params json.RawMessage) (interface{}, *ErrorObject) {
	var id hexutil.Uint64
	if err := unmarshalSingle(params, &id); err != nil {
		return nil, err
	}
	return s.backend.Snapshots.Revert(uint64(id)), nil
}

// unmarshalSingle decodes a params array holding exactly one element.
func unmarshalSingle(params json.RawMessage, v interface{}) *ErrorObject {
	var raw []json.RawMessage
	if err := json.Unmarshal(params, &raw); err != nil || len(raw) != 1 {
		return invalidParams("expected a single parameter")
	}
	if err := json.Unmarshal(raw[0], v); err != nil {
		return invalidParams(err.Error())
	}
	return nil
}

func invalidParams(msg string) *ErrorObject {
	return &ErrorObject{Code: ErrCodeInvalidParams, Message: msg}
}

// executionError maps a component failure onto the JSON-RPC error channel.
// The whole call has already been rejected with no state change.
func executionError(err error) *ErrorObject {
	return &ErrorObject{Code: ErrCodeExecution, Message: err.Error()}
}

// bigValue converts an optional attached value, treating absent as zero.
func bigValue(v *hexutil.Big) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v.ToInt()
}

func toMintResult(ids []uint64) *mintResult {
	out := make([]hexutil.Uint64, len(ids))
	for i, id := range ids {
		out[i] = hexutil.Uint64(id)
	}
	return &mintResult{TokenIDs: out}
}

func (s *Server) writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := Response{Jsonrpc: "2.0", ID: id, Result: result}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	resp := Response{
		Jsonrpc: "2.0",
		ID:      id,
		Error:   &ErrorObject{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
	}
}
