package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"air_process_calc/chain"
	"air_process_calc/config"
	"air_process_calc/equipment"
	"air_process_calc/psychro"
	"air_process_calc/units"
)

var validate = validator.New()

// 空気の状態の計算リクエスト
type AirStateRequest struct {
	Temperature      *float64 `json:"temperature" binding:"required"`
	RelativeHumidity *float64 `json:"relative_humidity" binding:"required_without=AbsoluteHumidity,omitempty,gte=0,lte=100"`
	AbsoluteHumidity *float64 `json:"absolute_humidity" binding:"omitempty,gte=0"` // 指定した場合は相対湿度より優先する
	Altitude         float64  `json:"altitude" binding:"gte=-500,lte=8000"`
}

// 空気の状態の計算レスポンス
type AirStateResponse struct {
	psychro.AirState
	DewPoint       *float64           `json:"dew_point"`       // 露点温度, degree C
	WetBulb        *float64           `json:"wet_bulb"`        // 湿球温度, degree C
	SpecificVolume *float64           `json:"specific_volume"` // 比容積, m3/kg(DA)
	Atmosphere     psychro.Atmosphere `json:"atmosphere"`
}

// 機器単体の計算リクエスト
type RecomputeRequest struct {
	Unit     *equipment.Unit `json:"unit" binding:"required"`
	Inlet    *StateInput     `json:"inlet"` // 省略した場合は機器の入口の状態
	Airflow  float64         `json:"airflow" binding:"gte=0"`
	Altitude float64         `json:"altitude" binding:"gte=-500,lte=8000"`
}

// 空気の状態の入力値
type StateInput struct {
	Temperature      *float64 `json:"temperature"`
	RelativeHumidity *float64 `json:"relative_humidity" binding:"omitempty,gte=0,lte=100"`
	AbsoluteHumidity *float64 `json:"absolute_humidity" binding:"omitempty,gte=0"`
}

// 系統に対する操作のリクエスト
type EventRequest struct {
	Chain *chain.Chain    `json:"chain" binding:"required"`
	Event json.RawMessage `json:"event" binding:"required"`
}

// 系統の計算レスポンス
type ChainResponse struct {
	Chain   chain.Chain   `json:"chain"`
	Summary chain.Summary `json:"summary"`
}

// 単位変換のリクエスト
type ConvertRequest struct {
	Kind  string       `json:"kind" binding:"required"`
	From  units.System `json:"from" binding:"required,oneof=SI IP"`
	To    units.System `json:"to" binding:"required,oneof=SI IP"`
	Value *float64     `json:"value" binding:"required"`
}

// 単位変換のレスポンス
type ConvertResponse struct {
	Value     float64 `json:"value"`
	Symbol    string  `json:"symbol"`
	Precision int     `json:"precision"`
}

// 蒸気圧力 (ゲージ圧) の単位変換のリクエスト
type SteamPressureRequest struct {
	From  string   `json:"from" binding:"required"` // 例: kPa(G)
	To    string   `json:"to" binding:"required"`
	Value *float64 `json:"value" binding:"required"`
}

// 蒸気圧力の単位変換のレスポンス
type SteamPressureResponse struct {
	Value  float64 `json:"value"`
	Symbol string  `json:"symbol"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
	})
}

// POST /air-state
func deriveAirState(c *gin.Context) {
	var req AirStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	atm := psychro.AtmosphereAt(req.Altitude)
	s := atm.DeriveAirState(req.Temperature, req.RelativeHumidity, req.AbsoluteHumidity)
	c.JSON(http.StatusOK, AirStateResponse{
		AirState:       s,
		DewPoint:       s.DewPoint(atm),
		WetBulb:        s.WetBulb(atm),
		SpecificVolume: s.SpecificVolume(),
		Atmosphere:     atm,
	})
}

// POST /recompute
func recomputeUnit(c *gin.Context) {
	var req RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validate.Struct(req.Unit.Conditions); err != nil {
		badRequest(c, err)
		return
	}

	atm := psychro.AtmosphereAt(req.Altitude)
	in := derive(atm, req.Unit.Inlet)
	if req.Inlet != nil {
		in = atm.DeriveAirState(req.Inlet.Temperature, req.Inlet.RelativeHumidity, req.Inlet.AbsoluteHumidity)
	}

	out := equipment.Recompute(*req.Unit, in, equipment.NewAmbient(atm, req.Airflow, in))
	c.JSON(http.StatusOK, out)
}

// POST /chains/recompute
//
// 本文はプロジェクトファイル (YAML または JSON)。
func recomputeChain(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return
	}

	p, err := config.Decode(data)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   err.Error(),
				"details": verr.Errors,
			})
			return
		}
		badRequest(c, err)
		return
	}

	ch, err := p.Build()
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, ChainResponse{Chain: ch, Summary: chain.Summarize(ch)})
}

// POST /chains/events
func applyEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// 計算結果は復号されないため再計算する
	ch := chain.RecomputeAll(normalize(*req.Chain))

	e, err := chain.DecodeEvent(ch, req.Event)
	if err != nil {
		eventError(c, err)
		return
	}
	next, err := chain.Apply(ch, e)
	if err != nil {
		eventError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChainResponse{Chain: next, Summary: chain.Summarize(next)})
}

func eventError(c *gin.Context, err error) {
	if errors.Is(err, chain.ErrUnitNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	badRequest(c, err)
}

// POST /convert
func convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	k, err := units.ParseKind(req.Kind)
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, ConvertResponse{
		Value:     units.ConvertValue(*req.Value, k, req.From, req.To),
		Symbol:    units.Symbol(k, req.To),
		Precision: units.Precision(k, req.To),
	})
}

// POST /convert/steam-pressure
func convertSteamPressure(c *gin.Context) {
	var req SteamPressureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	from, err := units.ParseSteamUnit(req.From)
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := units.ParseSteamUnit(req.To)
	if err != nil {
		badRequest(c, err)
		return
	}

	v, err := units.ConvertSteamPressure(req.Value, from, to)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, SteamPressureResponse{Value: *v, Symbol: string(to)})
}

// GET /convert/steam-units
func listSteamUnits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"units": units.SteamUnits(),
	})
}

/*
受け取った系統の状態量を整える。

	Notes:
		大気圧が未指定の場合は標準大気圧とする。
		境界条件と固定された入口は、温度・相対湿度・絶対湿度から状態を作り直す。
*/
func normalize(ch chain.Chain) chain.Chain {
	if ch.Atmosphere.Pressure <= 0.0 {
		ch.Atmosphere = psychro.Standard
	}
	atm := ch.Atmosphere
	ch.References.Inlet = derive(atm, ch.References.Inlet)
	ch.References.Outlet = derive(atm, ch.References.Outlet)

	ch.Units = append([]equipment.Unit(nil), ch.Units...)
	for i := range ch.Units {
		if ch.Units[i].InletLocked {
			ch.Units[i].Inlet = derive(atm, ch.Units[i].Inlet)
		}
	}
	return ch
}

func derive(atm psychro.Atmosphere, s psychro.AirState) psychro.AirState {
	return atm.DeriveAirState(s.Temperature, s.RelativeHumidity, s.AbsoluteHumidity)
}
