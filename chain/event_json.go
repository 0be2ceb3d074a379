package chain

import (
	"encoding/json"
	"fmt"

	"air_process_calc/equipment"
)

/*
JSON から系統に対する操作を復号する。

	Args:
		c: 操作の対象となる系統 (機器条件の種類の判定に用いる)
		data: {"type": 操作の種類, ...操作ごとの項目} 形式の JSON

	Returns:
		操作
*/
func DecodeEvent(c Chain, data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventInput, err)
	}

	switch head.Type {
	case EditInlet{}.Type():
		return decodeEvent[EditInlet](data)
	case EditOutlet{}.Type():
		return decodeEvent[EditOutlet](data)
	case ReflectUpstream{}.Type():
		return decodeEvent[ReflectUpstream](data)
	case ReflectDownstream{}.Type():
		return decodeEvent[ReflectDownstream](data)
	case SetConditions{}.Type():
		return decodeSetConditions(c, data)
	case SetPressureLoss{}.Type():
		return decodeEvent[SetPressureLoss](data)
	case SetAirflow{}.Type():
		return decodeEvent[SetAirflow](data)
	case SetReferences{}.Type():
		return decodeEvent[SetReferences](data)
	case Insert{}.Type():
		return decodeEvent[Insert](data)
	case Remove{}.Type():
		return decodeEvent[Remove](data)
	case Move{}.Type():
		return decodeEvent[Move](data)
	case Rename{}.Type():
		return decodeEvent[Rename](data)
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidEventInput, head.Type)
	}
}

func decodeEvent[T Event](data []byte) (Event, error) {
	var e T
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventInput, err)
	}
	return e, nil
}

// 機器条件は対象の機器の種類に応じて復号する。
func decodeSetConditions(c Chain, data []byte) (Event, error) {
	var raw struct {
		UnitID     string          `json:"unit_id"`
		Conditions json.RawMessage `json:"conditions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventInput, err)
	}
	i, err := c.IndexOf(raw.UnitID)
	if err != nil {
		return nil, err
	}

	cond, err := equipment.DecodeConditions(c.Units[i].Kind, func(v any) error {
		return json.Unmarshal(raw.Conditions, v)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEventInput, err)
	}
	return SetConditions{UnitID: raw.UnitID, Conditions: cond}, nil
}
