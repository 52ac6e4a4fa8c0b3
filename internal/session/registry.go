package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/lensquote/internal/domain"
)

// Registry creates commands from string parameters, for the CLI --set flag and the
// HTTP command endpoint.
type Registry struct {
	factories map[string]CommandFactory
}

// CommandFactory creates a command from parameters
type CommandFactory func(params map[string]string) (Command, error)

// NewRegistry creates a registry with every built-in command registered
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]CommandFactory)}

	r.Register("set_eye", createSetEye)
	r.Register("clear_eye", createClearEye)
	r.Register("copy_right_to_left", func(map[string]string) (Command, error) { return CopyRightToLeft{}, nil })
	r.Register("set_supply", createSetSupply)
	r.Register("clear_supply", func(map[string]string) (Command, error) { return ClearSupply{}, nil })
	r.Register("set_fitting_type", createSetFittingType)
	r.Register("set_self_pay", createSetSelfPay)
	r.Register("set_patient", createSetPatient)
	r.Register("set_new_to_brand", createSetNewToBrand)
	r.Register("set_fee_method", createSetFeeMethod)
	r.Register("set_input", createSetInput)
	r.Register("unset", createUnset)
	r.Register("clear_all", func(map[string]string) (Command, error) { return ClearAll{}, nil })

	return r
}

// Register adds a command factory
func (r *Registry) Register(name string, factory CommandFactory) {
	r.factories[name] = factory
}

// Create creates a command by name
func (r *Registry) Create(name string, params map[string]string) (Command, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", name)
	}
	return factory(params)
}

// List returns the registered command names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseCommandSpec parses "name" or "name:key=value,key=value".
// Example: "set_eye:eye=right,manufacturer=Alcon,brand=Dailies Total1"
func (r *Registry) ParseCommandSpec(spec string) (Command, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)
	if name == "" {
		return nil, fmt.Errorf("invalid command spec, expected 'name:params', got: %q", spec)
	}

	params := make(map[string]string)
	if paramsStr != "" {
		for _, pair := range strings.Split(paramsStr, ",") {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", pair)
			}
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	return r.Create(name, params)
}

// ParseCommandSpecs parses several specs in order
func (r *Registry) ParseCommandSpecs(specs []string) ([]Command, error) {
	cmds := make([]Command, 0, len(specs))
	for _, spec := range specs {
		cmd, err := r.ParseCommandSpec(spec)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func requireParam(params map[string]string, command, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s requires '%s' parameter", command, key)
	}
	return v, nil
}

func createSetEye(params map[string]string) (Command, error) {
	eyeStr, err := requireParam(params, "set_eye", "eye")
	if err != nil {
		return nil, err
	}
	eye, err := domain.ParseEye(eyeStr)
	if err != nil {
		return nil, err
	}
	manufacturer, err := requireParam(params, "set_eye", "manufacturer")
	if err != nil {
		return nil, err
	}
	brand, err := requireParam(params, "set_eye", "brand")
	if err != nil {
		return nil, err
	}
	return SetEye{Eye: eye, Manufacturer: manufacturer, Brand: brand}, nil
}

func createClearEye(params map[string]string) (Command, error) {
	eyeStr, err := requireParam(params, "clear_eye", "eye")
	if err != nil {
		return nil, err
	}
	eye, err := domain.ParseEye(eyeStr)
	if err != nil {
		return nil, err
	}
	return ClearEye{Eye: eye}, nil
}

func createSetSupply(params map[string]string) (Command, error) {
	modeStr, err := requireParam(params, "set_supply", "mode")
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseSupplyMode(modeStr)
	if err != nil {
		return nil, err
	}
	return SetSupplyMode{Mode: mode}, nil
}

func createSetFittingType(params map[string]string) (Command, error) {
	typeStr, err := requireParam(params, "set_fitting_type", "type")
	if err != nil {
		return nil, err
	}
	ft, err := domain.ParseFittingType(typeStr)
	if err != nil {
		return nil, err
	}
	return SetFittingType{Type: ft}, nil
}

func createSetSelfPay(params map[string]string) (Command, error) {
	v, err := requireParam(params, "set_self_pay", "value")
	if err != nil {
		return nil, err
	}
	selfPay, err := domain.ParseYesNo("self_pay", v)
	if err != nil {
		return nil, err
	}
	return SetSelfPay{SelfPay: selfPay}, nil
}

func createSetPatient(params map[string]string) (Command, error) {
	v, err := requireParam(params, "set_patient", "status")
	if err != nil {
		return nil, err
	}
	status, err := domain.ParsePatientStatus(v)
	if err != nil {
		return nil, err
	}
	return SetPatientStatus{Status: status}, nil
}

func createSetNewToBrand(params map[string]string) (Command, error) {
	v, err := requireParam(params, "set_new_to_brand", "value")
	if err != nil {
		return nil, err
	}
	newToBrand, err := domain.ParseYesNo("new_to_brand", v)
	if err != nil {
		return nil, err
	}
	return SetNewToBrand{NewToBrand: newToBrand}, nil
}

func createSetFeeMethod(params map[string]string) (Command, error) {
	v, err := requireParam(params, "set_fee_method", "method")
	if err != nil {
		return nil, err
	}
	method, err := domain.ParseFeeMethod(v)
	if err != nil {
		return nil, err
	}
	return SetFeeMethod{Method: method}, nil
}

// createSetInput dispatches to the manual or exam input command by field
func createSetInput(params map[string]string) (Command, error) {
	fieldStr, err := requireParam(params, "set_input", "field")
	if err != nil {
		return nil, err
	}
	field, err := domain.ParseNumericField(fieldStr)
	if err != nil {
		return nil, err
	}
	raw := params["value"]
	if field.Manual() {
		return SetManualInput{Field: field, Raw: raw}, nil
	}
	return SetExamInput{Field: field, Raw: raw}, nil
}

func createUnset(params map[string]string) (Command, error) {
	fieldStr, err := requireParam(params, "unset", "field")
	if err != nil {
		return nil, err
	}
	field, err := domain.ParseField(fieldStr)
	if err != nil {
		return nil, err
	}
	return Unset{Field: field}, nil
}
