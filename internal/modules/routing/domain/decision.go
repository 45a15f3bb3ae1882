package domain

// Decision is the routing outcome for one message.
// URL and Reason are set only when Action is ActionForward; Reason is also
// set for ActionMisconfigured so the caller can log what triggered it.
type Decision struct {
	Action Action
	URL    string
	Reason TriggerReason
}

// Forwarding reports whether the message should be posted to URL.
func (d Decision) Forwarding() bool {
	return d.Action == ActionForward
}

// ContinueToCommands reports whether ordinary command processing should
// still see the message. Only messages from automated accounts stop here.
func (d Decision) ContinueToCommands() bool {
	return d.Action != ActionIgnore
}
