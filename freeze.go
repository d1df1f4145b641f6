// File: lixenwraith/composer/freeze.go
package composer

import (
	"fmt"
)

// FreezeBehavior selects how a frozen instance treats writes.
type FreezeBehavior string

const (
	// FreezeRaise rejects writes with ErrFrozen.
	FreezeRaise FreezeBehavior = "raise"
	// FreezeLogAndAllow logs a warning and performs the write.
	FreezeLogAndAllow FreezeBehavior = "log_and_allow"
	// FreezeLogAndSkip logs a warning and drops the write.
	FreezeLogAndSkip FreezeBehavior = "log_and_skip"
)

// FreezeBehaviors lists the accepted behaviors.
var FreezeBehaviors = []FreezeBehavior{FreezeRaise, FreezeLogAndAllow, FreezeLogAndSkip}

// FreezeFunc decides whether a write to field may proceed on a frozen instance.
type FreezeFunc func(inst *Instance, field string) bool

// FreezeOptions configures Freeze. Exactly one of Behavior and Decide must be set.
type FreezeOptions struct {
	Behavior FreezeBehavior
	Decide   FreezeFunc
	// Children applies the same freeze to every nested instance.
	Children bool
}

// freezePolicy is consulted by every setter.
type freezePolicy interface {
	allow(inst *Instance, field string) (bool, error)
}

type unfrozen struct{}

func (unfrozen) allow(*Instance, string) (bool, error) { return true, nil }

type raisePolicy struct{}

func (raisePolicy) allow(inst *Instance, field string) (bool, error) {
	return false, fmt.Errorf("%w: %s instance is frozen. Attempted to change field [%s]", ErrFrozen, inst.schema.name, field)
}

type logPolicy struct {
	proceed bool
}

func (p logPolicy) allow(inst *Instance, field string) (bool, error) {
	msg := "instance is frozen, write will NOT proceed"
	if p.proceed {
		msg = "instance is frozen, write will proceed"
	}
	logger := inst.schema.logger
	logger.Warn().
		Str("schema", inst.schema.name).
		Str("field", field).
		Bool("proceed", p.proceed).
		Msg(msg)
	return p.proceed, nil
}

type customPolicy struct {
	decide FreezeFunc
}

func (p customPolicy) allow(inst *Instance, field string) (bool, error) {
	return p.decide(inst, field), nil
}

// Freeze sets the instance's freeze policy. Calling Freeze again replaces the
// policy. With Children, every nested instance currently held is frozen the
// same way.
func (inst *Instance) Freeze(opts FreezeOptions) error {
	policy, err := newFreezePolicy(opts)
	if err != nil {
		return err
	}
	inst.applyFreeze(policy)

	if !opts.Children {
		return nil
	}
	return inst.freezeChildren(policy)
}

func (inst *Instance) freezeChildren(policy freezePolicy) error {
	children, err := inst.nested()
	if err != nil {
		return err
	}
	for _, child := range children {
		child.applyFreeze(policy)
		if err := child.freezeChildren(policy); err != nil {
			return err
		}
	}
	return nil
}

func (inst *Instance) applyFreeze(policy freezePolicy) {
	inst.freeze = policy
}

func newFreezePolicy(opts FreezeOptions) (freezePolicy, error) {
	if opts.Behavior != "" && opts.Decide != nil {
		return nil, fmt.Errorf("%w: freeze behavior and decide function can not both be present. Choose one", ErrInvalidArgument)
	}
	if opts.Behavior == "" && opts.Decide == nil {
		return nil, fmt.Errorf("%w: freeze behavior or decide function must be present", ErrInvalidArgument)
	}

	if opts.Decide != nil {
		return customPolicy{decide: opts.Decide}, nil
	}

	switch opts.Behavior {
	case FreezeRaise:
		return raisePolicy{}, nil
	case FreezeLogAndAllow:
		return logPolicy{proceed: true}, nil
	case FreezeLogAndSkip:
		return logPolicy{proceed: false}, nil
	}
	return nil, fmt.Errorf("%w: unknown freeze behavior [%s]. Expected one of %v", ErrRegistration, opts.Behavior, FreezeBehaviors)
}

// CheckFrozen reports whether a write to field may proceed under the current
// freeze policy. FreezeRaise returns ErrFrozen.
func (inst *Instance) CheckFrozen(field string) (bool, error) {
	return inst.freeze.allow(inst, field)
}

// Frozen reports whether a freeze policy is in effect.
func (inst *Instance) Frozen() bool {
	_, open := inst.freeze.(unfrozen)
	return !open
}
