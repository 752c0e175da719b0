// Package operation defines the OperationType vocabulary and the
// canonical-case conversion between a program/action pair and its wire
// string form, e.g. ("token", "transferChecked") <-> "Token__TransferChecked".
package operation

import (
	"sort"
	"strings"
	"unicode"
)

// Separator joins the program and action halves of an OperationType
// string. It must never appear inside either half.
const Separator = "__"

// Unknown is the catch-all type for any string that doesn't decompose
// into a recognized program/action pair.
const Unknown = "Unknown"

// knownTypes is the closed set of OperationType strings the decoder and
// matcher dispatch on. Anything outside this set collapses to Unknown.
var knownTypes = buildKnownTypes()

func buildKnownTypes() map[string]struct{} {
	programs := map[string][]string{
		"system": {
			"createAccount", "assign", "transfer", "allocate",
			"createNonceAccount", "advanceNonceAccount", "withdrawNonceAccount", "authorizeNonceAccount",
			"initializeNonceAccount",
		},
		"token": {
			"initializeMint", "initializeAccount", "createToken", "createAccount",
			"transfer", "approve", "revoke", "mintTo", "burn", "closeAccount",
			"freezeAccount", "thawAccount", "transferChecked", "createAssocAccount",
		},
		"stake": {
			"createAccount", "delegate", "split", "merge", "authorize",
			"withdraw", "deactivate", "setLockup", "initialize",
		},
		"vote": {
			"createAccount", "authorize", "withdraw",
			"updateValidatorIdentity", "updateCommission", "initializeAccount",
		},
	}
	out := map[string]struct{}{}
	for program, actions := range programs {
		for _, action := range actions {
			out[TypeFor(program, action)] = struct{}{}
		}
	}
	return out
}

// toPascal converts a camelCase or kebab-case identifier to PascalCase,
// matching convert_case::Case::Pascal: split on '-', '_' and case
// boundaries, then upper-case the first letter of each word.
func toPascal(s string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_':
			flush()
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	return b.String()
}

// TypeFor builds the canonical OperationType string for a program and
// action name, e.g. TypeFor("token", "transfer") == "Token__Transfer".
func TypeFor(program, action string) string {
	p := toPascal(program)
	a := toPascal(action)
	if p == "" || a == "" {
		return Unknown
	}
	return p + Separator + a
}

// ParseType splits a wire OperationType string back into its
// already-canonical form, returning Unknown if it doesn't parse into
// exactly two non-empty halves.
func ParseType(s string) string {
	parts := strings.SplitN(s, Separator, 2)
	if len(parts) != 2 {
		return Unknown
	}
	t := TypeFor(parts[0], parts[1])
	if _, ok := knownTypes[t]; !ok {
		return Unknown
	}
	return t
}

// IsKnown reports whether t is a recognized OperationType.
func IsKnown(t string) bool {
	_, ok := knownTypes[t]
	return ok
}

// AllTypes returns every recognized OperationType, sorted, for
// network/options.allow.operation_types.
func AllTypes() []string {
	out := make([]string, 0, len(knownTypes))
	for t := range knownTypes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Program-level OperationType constants, grouped the way the matcher
// and decoder dispatch on them.
const (
	SystemCreateAccount      = "System__CreateAccount"
	SystemAssign             = "System__Assign"
	SystemTransfer           = "System__Transfer"
	SystemAllocate           = "System__Allocate"
	SystemCreateNonceAccount  = "System__CreateNonceAccount"
	SystemAdvanceNonceAccount = "System__AdvanceNonceAccount"
	SystemWithdrawNonceAccount = "System__WithdrawNonceAccount"
	SystemAuthorizeNonceAccount = "System__AuthorizeNonceAccount"
	SystemInitializeNonceAccount = "System__InitializeNonceAccount"

	TokenInitializeMint    = "Token__InitializeMint"
	TokenInitializeAccount = "Token__InitializeAccount"
	TokenCreateToken       = "Token__CreateToken"
	TokenCreateAccount     = "Token__CreateAccount"
	TokenTransfer          = "Token__Transfer"
	TokenApprove           = "Token__Approve"
	TokenRevoke            = "Token__Revoke"
	TokenMintTo            = "Token__MintTo"
	TokenBurn              = "Token__Burn"
	TokenCloseAccount      = "Token__CloseAccount"
	TokenFreezeAccount     = "Token__FreezeAccount"
	TokenThawAccount       = "Token__ThawAccount"
	TokenTransferChecked   = "Token__TransferChecked"
	TokenCreateAssocAccount = "Token__CreateAssocAccount"

	StakeCreateAccount = "Stake__CreateAccount"
	StakeDelegate      = "Stake__Delegate"
	StakeSplit         = "Stake__Split"
	StakeMerge         = "Stake__Merge"
	StakeAuthorize     = "Stake__Authorize"
	StakeWithdraw      = "Stake__Withdraw"
	StakeDeactivate    = "Stake__Deactivate"
	StakeSetLockup     = "Stake__SetLockup"
	StakeInitialize    = "Stake__Initialize"

	VoteCreateAccount           = "Vote__CreateAccount"
	VoteAuthorize               = "Vote__Authorize"
	VoteWithdraw                = "Vote__Withdraw"
	VoteUpdateValidatorIdentity = "Vote__UpdateValidatorIdentity"
	VoteUpdateCommission        = "Vote__UpdateCommission"
	VoteInitializeAccount       = "Vote__InitializeAccount"
)

// Group identifies which internal metadata family an OperationType
// belongs to, matching the match-arms in the matcher/decoder.
type Group int

const (
	GroupUnknown Group = iota
	GroupSystem
	GroupToken
	GroupStake
	GroupVote
)

var groupOf = map[string]Group{
	SystemCreateAccount: GroupSystem, SystemAssign: GroupSystem, SystemTransfer: GroupSystem,
	SystemAllocate: GroupSystem, SystemCreateNonceAccount: GroupSystem,
	SystemAdvanceNonceAccount: GroupSystem, SystemWithdrawNonceAccount: GroupSystem, SystemAuthorizeNonceAccount: GroupSystem,
	SystemInitializeNonceAccount: GroupSystem,

	TokenInitializeMint: GroupToken, TokenInitializeAccount: GroupToken,
	TokenCreateToken: GroupToken, TokenCreateAccount: GroupToken,
	TokenTransfer: GroupToken, TokenApprove: GroupToken, TokenRevoke: GroupToken,
	TokenMintTo: GroupToken, TokenBurn: GroupToken, TokenCloseAccount: GroupToken,
	TokenFreezeAccount: GroupToken, TokenThawAccount: GroupToken,
	TokenTransferChecked: GroupToken, TokenCreateAssocAccount: GroupToken,

	StakeCreateAccount: GroupStake, StakeDelegate: GroupStake, StakeSplit: GroupStake,
	StakeMerge: GroupStake, StakeAuthorize: GroupStake, StakeWithdraw: GroupStake,
	StakeDeactivate: GroupStake, StakeSetLockup: GroupStake, StakeInitialize: GroupStake,

	VoteCreateAccount: GroupVote, VoteAuthorize: GroupVote, VoteWithdraw: GroupVote,
	VoteUpdateValidatorIdentity: GroupVote, VoteUpdateCommission: GroupVote, VoteInitializeAccount: GroupVote,
}

// GroupFor returns which family an OperationType dispatches to.
func GroupFor(t string) Group {
	if g, ok := groupOf[t]; ok {
		return g
	}
	return GroupUnknown
}

// NativeSymbol and NativeDecimals are the currency the Matcher and
// Decoder fall back to when an operation carries no mint.
const (
	NativeSymbol   = "SOL"
	NativeDecimals = 9
)

// balanceChanging is the exact set of types the Matcher pairs and the
// Decoder splits into opposite-signed sender/receiver operations.
var balanceChanging = map[string]bool{
	SystemTransfer:       true,
	TokenTransfer:        true,
	TokenTransferChecked: true,
}

// IsBalanceChanging reports whether t is one of the three types that
// carry a signed balance delta on a single account.
func IsBalanceChanging(t string) bool {
	return balanceChanging[t]
}
