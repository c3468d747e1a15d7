package types

// MachineHandler receives every record set committed to the record store.
type MachineHandler interface {
	HandleMachines(machines []*Machine)
}
