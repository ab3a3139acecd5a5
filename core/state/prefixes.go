package state

var (
	accountRecordPrefix = []byte("accounts/record/")
	optionRecordPrefix  = []byte("options/record/")
	optionEscrowPrefix  = []byte("options/escrow/")
	genesisAppliedKey   = []byte("genesis/applied")
)
