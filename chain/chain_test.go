package chain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"air_process_calc/equipment"
	"air_process_calc/psychro"
)

var f64 = psychro.Float64

// 冷却コイル → フィルタ → 加熱コイル → 送風機
func newTestChain() Chain {
	atm := psychro.Standard
	refs := ReferenceStates{
		Inlet:  atm.NewAirState(f64(32), f64(60)),
		Outlet: atm.NewAirState(f64(20), f64(50)),
	}

	cc := equipment.NewUnit(equipment.CoolingCoil)
	cc.Outlet = psychro.AirState{Temperature: f64(14)}
	fl := equipment.NewUnit(equipment.Filter)
	hc := equipment.NewUnit(equipment.HeatingCoil)
	hc.Outlet = psychro.AirState{Temperature: f64(20)}
	fan := equipment.NewUnit(equipment.Fan)

	return New([]equipment.Unit{cc, fl, hc, fan}, refs, 5000, atm)
}

func requireConsistent(t *testing.T, c Chain) {
	t.Helper()
	for i, u := range c.Units {
		if u.InletLocked {
			continue
		}
		assert.True(t, u.Inlet.Equal(c.upstreamOutlet(i), 0), "unit %d inlet must mirror upstream", i)
	}
}

func TestNew(t *testing.T) {
	c := newTestChain()
	require.Len(t, c.Units, 4)
	requireConsistent(t, c)

	assert.True(t, c.Units[0].Inlet.Equal(c.References.Inlet, 0))
	assert.InDelta(t, 14, *c.Units[0].Outlet.Temperature, 1e-12)
	assert.True(t, c.Units[0].Results.(equipment.CoolingCoilResults).Dehumidifying)
	assert.InDelta(t, 20, *c.Units[2].Outlet.Temperature, 1e-12)
	assert.Greater(t, *c.Units[3].Outlet.Temperature, 20.0)
}

func TestApply_DoesNotModifyOriginal(t *testing.T) {
	c := newTestChain()
	id := c.Units[0].ID

	next, err := Apply(c, EditOutlet{UnitID: id, Temperature: f64(12)})
	require.NoError(t, err)

	assert.InDelta(t, 14, *c.Units[0].Outlet.Temperature, 1e-12)
	assert.InDelta(t, 12, *next.Units[0].Outlet.Temperature, 1e-12)
	requireConsistent(t, c)
	requireConsistent(t, next)
}

func TestEditOutlet_PropagatesToUnlockedNext(t *testing.T) {
	c := newTestChain()
	cc, hc := c.Units[0].ID, c.Units[2].ID

	c, err := Apply(c, EditOutlet{UnitID: cc, Temperature: f64(12)})
	require.NoError(t, err)
	assert.True(t, c.Units[1].Inlet.Equal(c.Units[0].Outlet, 0))
	assert.InDelta(t, 12, *c.Units[2].Inlet.Temperature, 1e-12)

	// 加熱コイルの入口を固定すると、上流の変更は伝播しない
	c, err = Apply(c, EditInlet{UnitID: hc, Temperature: f64(10), RelativeHumidity: f64(90)})
	require.NoError(t, err)
	assert.True(t, c.Units[2].InletLocked)
	locked := c.Units[2].Inlet

	c, err = Apply(c, EditOutlet{UnitID: cc, Temperature: f64(16)})
	require.NoError(t, err)
	assert.InDelta(t, 16, *c.Units[1].Inlet.Temperature, 1e-12)
	assert.True(t, c.Units[2].Inlet.Equal(locked, 0))
	assert.InDelta(t, 10, *c.Units[2].Inlet.Temperature, 1e-12)
}

func TestEditInlet_LocksAndRecomputes(t *testing.T) {
	c := newTestChain()
	fan := c.Units[3].ID

	c, err := Apply(c, EditInlet{UnitID: fan, Temperature: f64(25), AbsoluteHumidity: f64(8)})
	require.NoError(t, err)
	u := c.Units[3]
	assert.True(t, u.InletLocked)
	assert.InDelta(t, 8, *u.Inlet.AbsoluteHumidity, 1e-12)
	assert.Greater(t, *u.Outlet.Temperature, 25.0)
	assert.InDelta(t, 8, *u.Outlet.AbsoluteHumidity, 1e-12)
}

func TestEditOutlet_NotEditable(t *testing.T) {
	c := newTestChain()

	_, err := Apply(c, EditOutlet{UnitID: c.Units[3].ID, Temperature: f64(30)})
	assert.ErrorIs(t, err, ErrFieldNotEditable)

	_, err = Apply(c, EditOutlet{UnitID: c.Units[0].ID, RelativeHumidity: f64(90)})
	assert.ErrorIs(t, err, ErrFieldNotEditable)

	_, err = Apply(c, EditOutlet{UnitID: "missing", Temperature: f64(10)})
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestReflectUpstream(t *testing.T) {
	c := newTestChain()
	hc := c.Units[2].ID

	c, err := Apply(c, EditInlet{UnitID: hc, Temperature: f64(5), RelativeHumidity: f64(50)})
	require.NoError(t, err)

	c, err = Apply(c, ReflectUpstream{UnitID: hc})
	require.NoError(t, err)
	assert.False(t, c.Units[2].InletLocked)
	// フィルタを飛ばして冷却コイルの出口を参照する
	assert.True(t, c.Units[2].Inlet.Equal(c.Units[0].Outlet, 0))
	requireConsistent(t, c)
}

func TestReflectUpstream_FallsBackToReference(t *testing.T) {
	c := newTestChain()
	cc := c.Units[0].ID

	c, err := Apply(c, EditInlet{UnitID: cc, Temperature: f64(28), RelativeHumidity: f64(40)})
	require.NoError(t, err)
	c, err = Apply(c, ReflectUpstream{UnitID: cc})
	require.NoError(t, err)
	assert.True(t, c.Units[0].Inlet.Equal(c.References.Inlet, 0))
	assert.False(t, c.Units[0].InletLocked)
}

func TestReflectUpstream_KeepsRelativeHumidityTarget(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, Insert{Index: 3, Kind: equipment.SteamHumidifier})
	require.NoError(t, err)
	sh := c.Units[3].ID

	c, err = Apply(c, EditOutlet{UnitID: sh, RelativeHumidity: f64(80)})
	require.NoError(t, err)
	c, err = Apply(c, EditInlet{UnitID: sh, Temperature: f64(18), RelativeHumidity: f64(30)})
	require.NoError(t, err)

	c, err = Apply(c, ReflectUpstream{UnitID: sh})
	require.NoError(t, err)
	u := c.Units[3]
	assert.True(t, u.Inlet.Equal(c.Units[2].Outlet, 0))
	require.True(t, u.Outlet.Known())
	assert.InDelta(t, 80, *u.Outlet.RelativeHumidity, 0.05)
	assert.True(t, u.Results.(equipment.SteamHumidifierResults).Converged)
}

func TestReflectDownstream(t *testing.T) {
	c := newTestChain()
	hc := c.Units[2].ID

	// 最後の機器以外は次の機器の入口を参照する
	c, err := Apply(c, EditInlet{UnitID: c.Units[3].ID, Temperature: f64(24), RelativeHumidity: f64(40)})
	require.NoError(t, err)
	c, err = Apply(c, ReflectDownstream{UnitID: hc})
	require.NoError(t, err)
	assert.InDelta(t, 24, *c.Units[2].Outlet.Temperature, 1e-12)

	// 最後の機器は目標の給気を参照する
	c, err = Apply(c, Remove{UnitID: c.Units[3].ID})
	require.NoError(t, err)
	c, err = Apply(c, ReflectDownstream{UnitID: hc})
	require.NoError(t, err)
	assert.InDelta(t, 20, *c.Units[2].Outlet.Temperature, 1e-12)
}

func TestReflectDownstream_RelativeHumidityOnly(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, SetReferences{Outlet: &ReferenceInput{Temperature: f64(20), RelativeHumidity: f64(85)}})
	require.NoError(t, err)
	c, err = Apply(c, Insert{Index: 4, Kind: equipment.SprayWasher})
	require.NoError(t, err)
	sw := c.Units[4].ID
	// 追加直後は入口と同じ
	assert.True(t, c.Units[4].Outlet.Equal(c.Units[4].Inlet, 0))

	c, err = Apply(c, ReflectDownstream{UnitID: sw})
	require.NoError(t, err)
	u := c.Units[4]
	require.True(t, u.Outlet.Known())
	assert.InDelta(t, 85, *u.Outlet.RelativeHumidity, 0.05)
	assert.Less(t, *u.Outlet.Temperature, *u.Inlet.Temperature)
}

func TestInsert(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, Insert{Index: 1, Kind: equipment.Damper, Name: "VD-1"})
	require.NoError(t, err)
	require.Len(t, c.Units, 5)

	d := c.Units[1]
	assert.Equal(t, equipment.Damper, d.Kind)
	assert.Equal(t, "VD-1", d.Name)
	assert.Greater(t, d.PressureLoss, 0.0)
	requireConsistent(t, c)

	// 出口温度を指定する機器は入口温度を目標値として追加される
	c, err = Apply(c, Insert{Index: 0, Kind: equipment.HeatingCoil})
	require.NoError(t, err)
	assert.True(t, c.Units[0].Outlet.Equal(c.References.Inlet, 1e-9))
	requireConsistent(t, c)

	_, err = Apply(c, Insert{Index: 9, Kind: equipment.Fan})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = Apply(c, Insert{Index: 0, Kind: "chiller"})
	assert.ErrorIs(t, err, equipment.ErrUnknownKind)
}

func TestRemove(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, Remove{UnitID: c.Units[0].ID})
	require.NoError(t, err)
	require.Len(t, c.Units, 3)
	assert.Equal(t, equipment.Filter, c.Units[0].Kind)
	assert.True(t, c.Units[0].Inlet.Equal(c.References.Inlet, 0))
	requireConsistent(t, c)

	_, err = Apply(c, Remove{UnitID: "missing"})
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestMove(t *testing.T) {
	c := newTestChain()
	hc := c.Units[2].ID
	c, err := Apply(c, EditInlet{UnitID: hc, Temperature: f64(12), RelativeHumidity: f64(95)})
	require.NoError(t, err)

	fan := c.Units[3].ID
	c, err = Apply(c, Move{UnitID: fan, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, fan, c.Units[0].ID)
	assert.Equal(t, equipment.CoolingCoil, c.Units[1].Kind)
	requireConsistent(t, c)

	// 入口の固定は移動しても変わらない
	i, err := c.IndexOf(hc)
	require.NoError(t, err)
	assert.Equal(t, 3, i)
	assert.True(t, c.Units[i].InletLocked)

	_, err = Apply(c, Move{UnitID: fan, Index: 4})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRename(t *testing.T) {
	c := newTestChain()
	id := c.Units[1].ID
	c, err := Apply(c, Rename{UnitID: id, Name: "Pre-filter"})
	require.NoError(t, err)
	assert.Equal(t, "Pre-filter", c.Units[1].Name)

	c, err = Apply(c, Rename{UnitID: id})
	require.NoError(t, err)
	assert.Equal(t, "Filter", c.Units[1].Name)
}

func TestSetConditions(t *testing.T) {
	c := newTestChain()
	id := c.Units[0].ID
	before := *c.Units[0].Outlet.AbsoluteHumidity

	c, err := Apply(c, SetConditions{UnitID: id, Conditions: equipment.CoolingCoilConditions{BypassFactor: 0.3}})
	require.NoError(t, err)
	r := c.Units[0].Results.(equipment.CoolingCoilResults)
	assert.InDelta(t, (14-32*0.3)/0.7, r.ApparatusDewPoint, 1e-12)
	assert.NotEqual(t, before, *c.Units[0].Outlet.AbsoluteHumidity)
	assert.True(t, c.Units[1].Inlet.Equal(c.Units[0].Outlet, 0))

	_, err = Apply(c, SetConditions{UnitID: id, Conditions: equipment.FanConditions{}})
	assert.ErrorIs(t, err, equipment.ErrKindMismatch)
}

func TestSetPressureLoss(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, SetPressureLoss{UnitID: c.Units[1].ID, PressureLoss: 150})
	require.NoError(t, err)
	assert.Equal(t, 150.0, c.Units[1].PressureLoss)

	_, err = Apply(c, SetPressureLoss{UnitID: c.Units[1].ID, PressureLoss: -1})
	assert.ErrorIs(t, err, ErrInvalidEventInput)
}

func TestSetAirflow(t *testing.T) {
	c := newTestChain()
	load := c.Units[0].Results.(equipment.CoolingCoilResults).CoolingLoad

	doubled, err := Apply(c, SetAirflow{Airflow: 10000})
	require.NoError(t, err)
	assert.InDelta(t, 2*load, doubled.Units[0].Results.(equipment.CoolingCoilResults).CoolingLoad, 1e-9)

	// 風量 0 では出口は入口と同じ
	zero, err := Apply(c, SetAirflow{Airflow: 0})
	require.NoError(t, err)
	for _, u := range zero.Units {
		assert.True(t, u.Outlet.Equal(u.Inlet, 0))
	}

	_, err = Apply(c, SetAirflow{Airflow: -1})
	assert.ErrorIs(t, err, ErrInvalidAirflow)
}

func TestSetAirflow_ZeroKeepsTargets(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, Insert{Index: 4, Kind: equipment.SprayWasher})
	require.NoError(t, err)
	c, err = Apply(c, EditOutlet{UnitID: c.Units[4].ID, RelativeHumidity: f64(85)})
	require.NoError(t, err)

	zero, err := Apply(c, SetAirflow{Airflow: 0})
	require.NoError(t, err)
	assert.True(t, zero.Units[0].Outlet.Equal(zero.Units[0].Inlet, 0))
	assert.Equal(t, 14.0, *zero.Units[0].Target.Temperature)

	// 復号した系統でも目標値は失われない
	data, err := json.Marshal(zero)
	require.NoError(t, err)
	var decoded Chain
	require.NoError(t, json.Unmarshal(data, &decoded))

	for name, z := range map[string]Chain{"applied": zero, "decoded": decoded} {
		t.Run(name, func(t *testing.T) {
			restored, err := Apply(z, SetAirflow{Airflow: 5000})
			require.NoError(t, err)
			assert.InDelta(t, 14, *restored.Units[0].Outlet.Temperature, 1e-12)
			assert.InDelta(t, 20, *restored.Units[2].Outlet.Temperature, 1e-12)
			assert.Equal(t, 85.0, *restored.Units[4].Outlet.RelativeHumidity)
			assert.InDelta(t, c.Units[0].Results.(equipment.CoolingCoilResults).CoolingLoad,
				restored.Units[0].Results.(equipment.CoolingCoilResults).CoolingLoad, 1e-9)
		})
	}
}

func TestSetAirflow_ZeroResetsDamperPressureLoss(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, SetPressureLoss{UnitID: c.Units[1].ID, PressureLoss: 100})
	require.NoError(t, err)
	c, err = Apply(c, Insert{Index: 4, Kind: equipment.Damper})
	require.NoError(t, err)
	require.Greater(t, c.Units[4].PressureLoss, 0.0)
	assert.Greater(t, Summarize(c).PressureLoss, 100.0)

	zero, err := Apply(c, SetAirflow{Airflow: 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero.Units[4].PressureLoss)
	assert.Equal(t, 100.0, zero.Units[1].PressureLoss)
	assert.Equal(t, 100.0, Summarize(zero).PressureLoss)

	restored, err := Apply(zero, SetAirflow{Airflow: 5000})
	require.NoError(t, err)
	assert.InDelta(t, c.Units[4].PressureLoss, restored.Units[4].PressureLoss, 1e-9)
}

func TestSetReferences_UnknownInletKeepsTargets(t *testing.T) {
	c := newTestChain()
	unknown, err := Apply(c, SetReferences{Inlet: &ReferenceInput{RelativeHumidity: f64(60)}})
	require.NoError(t, err)
	assert.False(t, unknown.Units[0].Outlet.Known())

	c, err = Apply(unknown, SetReferences{Inlet: &ReferenceInput{Temperature: f64(32), RelativeHumidity: f64(60)}})
	require.NoError(t, err)
	assert.InDelta(t, 14, *c.Units[0].Outlet.Temperature, 1e-12)
	assert.InDelta(t, 20, *c.Units[2].Outlet.Temperature, 1e-12)
	requireConsistent(t, c)
}

func TestSetReferences(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, SetReferences{Inlet: &ReferenceInput{Temperature: f64(35), RelativeHumidity: f64(70)}})
	require.NoError(t, err)
	assert.InDelta(t, 35, *c.Units[0].Inlet.Temperature, 1e-12)
	assert.InDelta(t, 20, *c.References.Outlet.Temperature, 1e-12)
	requireConsistent(t, c)
}

func TestSummarize(t *testing.T) {
	c := newTestChain()
	c, err := Apply(c, SetPressureLoss{UnitID: c.Units[1].ID, PressureLoss: 150})
	require.NoError(t, err)
	c, err = Apply(c, SetPressureLoss{UnitID: c.Units[0].ID, PressureLoss: 200})
	require.NoError(t, err)

	s := Summarize(c)
	assert.Equal(t, 350.0, s.PressureLoss)

	cc := c.Units[0].Results.(equipment.CoolingCoilResults)
	hc := c.Units[2].Results.(equipment.HeatingCoilResults)
	fan := c.Units[3].Results.(equipment.FanResults)
	assert.True(t, scalar.EqualWithinAbsOrRel(cc.CoolingLoad, s.Cooling, 1e-12, 1e-12))
	assert.True(t, scalar.EqualWithinAbsOrRel(hc.HeatLoad+fan.HeatGeneration, s.Heating, 1e-9, 1e-12))
	assert.InDelta(t, cc.Dehumidification, s.Dehumidification, 1e-12)
	assert.Empty(t, s.NotConverged)

	assert.True(t, s.Supply.Equal(c.Units[3].Outlet, 0))
	require.NotNil(t, s.TemperatureDeviation)
	assert.InDelta(t, fan.TemperatureRise, *s.TemperatureDeviation, 1e-9)
	require.NotNil(t, s.RelativeHumidityDeviation)

	empty := Summarize(New(nil, c.References, 5000, psychro.Standard))
	assert.Equal(t, 0.0, empty.PressureLoss)
	assert.True(t, empty.Supply.Equal(c.References.Inlet, 0))
}
