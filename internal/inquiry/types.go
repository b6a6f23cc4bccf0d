package inquiry

import (
	"fmt"
	"strings"

	"treasury-desk/internal/booking"
	"treasury-desk/internal/product"
)

// State 为询价所处状态。
type State string

const (
	StateReceived         State = "RECEIVED"
	StateQuoted           State = "QUOTED"
	StateDone             State = "DONE"
	StateRejected         State = "REJECTED"
	StateCustomerRejected State = "CUSTOMER_REJECTED"
)

// transitions 列出每个状态允许进入的下一状态。
// CUSTOMER_REJECTED 在表中可达，但当前没有任何入口会驱动该迁移。
var transitions = map[State][]State{
	StateReceived: {StateQuoted, StateRejected},
	StateQuoted:   {StateDone, StateCustomerRejected},
}

// ParseState 解析状态名称，大小写不敏感。
func ParseState(s string) (State, error) {
	st := State(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("inquiry: 未知状态 %q", s)
	}
	return st, nil
}

// Valid 判断是否为已定义状态。
func (s State) Valid() bool {
	switch s {
	case StateReceived, StateQuoted, StateDone, StateRejected, StateCustomerRejected:
		return true
	}
	return false
}

// Terminal 判断状态是否没有后续迁移。
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition 判断能否从 s 迁移到 next。
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Inquiry 为一笔客户询价，以 InquiryID 作为身份。
type Inquiry struct {
	InquiryID string
	Product   product.Bond
	Side      booking.Side
	Quantity  int64
	Price     float64
	State     State
}

// transition 返回迁移到 next 后的新快照。
func (q Inquiry) transition(next State) (Inquiry, error) {
	if !q.State.CanTransition(next) {
		return q, fmt.Errorf("inquiry: %s 从 %s 到 %s: %w", q.InquiryID, q.State, next, ErrInvalidTransition)
	}
	q.State = next
	return q, nil
}
