package enums

// TxnStatus is the observed state of one database transaction attempt.
type TxnStatus string

const (
	TxnStatusPending    TxnStatus = "pending"
	TxnStatusActive     TxnStatus = "active"
	TxnStatusCommitted  TxnStatus = "committed"
	TxnStatusRolledBack TxnStatus = "rolled_back"
	TxnStatusFailed     TxnStatus = "failed"
)

// String implements fmt.Stringer.
func (t TxnStatus) String() string {
	return string(t)
}
