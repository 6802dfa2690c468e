package liststate

// Action names a store mutation.
type Action string

const (
	ActionUpdateList      Action = "update_list"
	ActionDeleteList      Action = "delete_list"
	ActionIncrementUsage  Action = "increment_usage"
	ActionAddProduct      Action = "add_product"
	ActionRemoveProduct   Action = "remove_product"
	ActionUpdateQuantity  Action = "update_quantity"
	ActionTogglePurchased Action = "toggle_purchased"
)

// MutationState is the lifecycle position of an optimistic mutation.
//
//	Applying -> Committed
//	Applying -> RolledBack
//	Applying -> Kept
type MutationState string

const (
	// Applying: the local change is visible and the call is in flight.
	MutationApplying MutationState = "applying"
	// Committed: the call succeeded and the local change stands.
	MutationCommitted MutationState = "committed"
	// RolledBack: the call failed and the snapshot was restored.
	MutationRolledBack MutationState = "rolled_back"
	// Kept: the call failed but the local change was left in place.
	MutationKept MutationState = "kept"
)

// scope selects the parts of the state a mutation may touch and restore.
type scope uint8

const (
	scopeLists scope = 1 << iota
	scopeProducts
)

// Mutation records one optimistic change.
type Mutation struct {
	Seq    uint64
	Action Action
	State  MutationState
	Err    error

	scope    scope
	snapshot State
}

func newMutation(seq uint64, action Action, sc scope, snapshot State) *Mutation {
	return &Mutation{
		Seq:      seq,
		Action:   action,
		State:    MutationApplying,
		scope:    sc,
		snapshot: snapshot,
	}
}

// commit moves an applying mutation to Committed.
func (m *Mutation) commit() bool {
	if m.State != MutationApplying {
		return false
	}
	m.State = MutationCommitted
	return true
}

// rollback moves an applying mutation to RolledBack and restores the scoped
// parts of st from the snapshot.
func (m *Mutation) rollback(st *State, err error) bool {
	if m.State != MutationApplying {
		return false
	}
	if m.scope&scopeLists != 0 {
		st.Lists = m.snapshot.Lists
		st.CurrentList = m.snapshot.CurrentList
	}
	if m.scope&scopeProducts != 0 {
		st.CurrentProducts = m.snapshot.CurrentProducts
	}
	m.State = MutationRolledBack
	m.Err = err
	return true
}

// keep moves an applying mutation to Kept.
func (m *Mutation) keep(err error) bool {
	if m.State != MutationApplying {
		return false
	}
	m.State = MutationKept
	m.Err = err
	return true
}

// public returns a copy without the snapshot.
func (m *Mutation) public() Mutation {
	return Mutation{Seq: m.Seq, Action: m.Action, State: m.State, Err: m.Err}
}
