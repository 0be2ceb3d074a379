package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"air_process_calc/chain"
	"air_process_calc/config"
	"air_process_calc/logger"
	"air_process_calc/recorder"
	"air_process_calc/server"
	"air_process_calc/units"
)

type Config struct {
	ProjectPath    string
	OutputDataDir  string
	IsCSVSaved     bool
	IsProjectSaved bool
	UnitSystem     units.System
}

/*
空調処理系統の計算の実行

	Args:
		cfg: 実行条件
		w: 計算結果の表の出力先
*/
func run(cfg Config, w io.Writer) error {
	// ---- 事前準備 ----

	// 出力ディレクトリの作成
	if cfg.IsCSVSaved || cfg.IsProjectSaved {
		if err := os.MkdirAll(cfg.OutputDataDir, 0o755); err != nil {
			return fmt.Errorf("`%s` is not a directory: %w", cfg.OutputDataDir, err)
		}
	}

	// プロジェクトファイルの読み込み
	logger.Info("プロジェクトファイルの読み込み開始")
	p, err := loadProject(cfg.ProjectPath)
	if err != nil {
		return err
	}
	logger.Info("プロジェクトファイルの読み込み完了")

	sys := cfg.UnitSystem
	if sys == "" {
		sys = p.UnitSystem
	}
	if sys == "" {
		sys = units.SI
	}

	// ---- 計算 ----

	logger.Info("系統の計算開始")
	c, err := p.Build()
	if err != nil {
		return err
	}
	summary := chain.Summarize(c)
	logger.Info("系統の計算完了")

	for _, id := range summary.NotConverged {
		logger.Warn("unit `%s` did not converge", id)
	}

	// ---- 出力 ----

	rec := recorder.NewRecorder(sys)
	rec.Record(c)
	if err := printTable(w, rec.Rows(), summary, c, sys); err != nil {
		return err
	}

	if cfg.IsCSVSaved {
		if _, err := rec.Save(cfg.OutputDataDir); err != nil {
			return err
		}
	}

	if cfg.IsProjectSaved {
		saved, err := config.FromChain(p.Name, c, sys)
		if err != nil {
			return err
		}
		if err := saved.Save(filepath.Join(cfg.OutputDataDir, "project_out.yaml")); err != nil {
			return err
		}
	}
	return nil
}

// プロジェクトファイルをパスまたは URL から読み込む。
func loadProject(path string) (*config.Project, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		return config.Load(path)
	}

	resp, err := http.Get(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get `%s`: %s", path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return config.Decode(body)
}

// 計算結果を表形式で出力する。
func printTable(out io.Writer, rows []*recorder.Row, s chain.Summary, c chain.Chain, sys units.System) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)

	sym := func(k units.Kind) string { return units.Symbol(k, sys) }
	fmt.Fprintf(w, "#\tname\tkind\tinlet [%s]\tinlet [%%]\toutlet [%s]\toutlet [%%]\tx out [%s]\tdP [%s]\theating [%s]\tcooling [%s]\t\n",
		sym(units.Temperature), sym(units.Temperature), sym(units.AbsoluteHumidity), sym(units.Pressure), sym(units.HeatLoad), sym(units.HeatLoad))
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Index, r.Name, r.Kind,
			dash(r.InletTemperature), dash(r.InletRelativeHumidity),
			dash(r.OutletTemperature), dash(r.OutletRelativeHumidity), dash(r.OutletAbsoluteHumidity),
			r.PressureLoss, r.Heating, r.Cooling)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	value := func(v float64, k units.Kind) string {
		return fmt.Sprintf("%.*f %s", units.Precision(k, sys), units.ConvertValue(v, k, units.SI, sys), sym(k))
	}
	fmt.Fprintf(out, "airflow:          %s\n", value(c.Airflow, units.Airflow))
	fmt.Fprintf(out, "pressure loss:    %s\n", value(s.PressureLoss, units.Pressure))
	fmt.Fprintf(out, "heating:          %s\n", value(s.Heating, units.HeatLoad))
	fmt.Fprintf(out, "cooling:          %s\n", value(s.Cooling, units.HeatLoad))
	fmt.Fprintf(out, "humidification:   %s\n", value(s.Humidification, units.SteamFlow))
	fmt.Fprintf(out, "dehumidification: %s\n", value(s.Dehumidification, units.SteamFlow))

	if s.TemperatureDeviation != nil {
		// 温度差は換算係数のみ掛ける
		d := units.ConvertValue(*s.TemperatureDeviation, units.Temperature, units.SI, sys) - units.ConvertValue(0, units.Temperature, units.SI, sys)
		fmt.Fprintf(out, "supply - target:  %+.1f %s", d, sym(units.Temperature))
		if s.RelativeHumidityDeviation != nil {
			fmt.Fprintf(out, ", %+.1f %%", *s.RelativeHumidityDeviation)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func serve(addr string) error {
	s := server.NewServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- s.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	}
}

func main() {
	var project_path string
	flag.StringVar(&project_path, "input", "", "計算を実行するプロジェクトファイル (YAML) のパスまたは URL")

	var output_data_dir string
	flag.StringVar(&output_data_dir, "o", ".", "出力フォルダ")

	var csv_saved bool
	flag.BoolVar(&csv_saved, "csv", false, "機器ごとの計算結果を CSV 形式で出力するか否かを指定します。")

	var project_saved bool
	flag.BoolVar(&project_saved, "save", false, "計算後のプロジェクトファイルを出力するか否かを指定します。")

	var unit_system string
	flag.StringVar(&unit_system, "units", "", "出力の単位系 (SI または IP) を指定します。省略した場合はプロジェクトファイルの単位系とします。")

	var logLevel string
	flag.StringVar(&logLevel, "log", "ERROR", "ログレベルを指定します。 (Default=ERROR)")

	var serving bool
	flag.BoolVar(&serving, "serve", false, "HTTP サーバーとして起動するか否かを指定します。")

	var addr string
	flag.StringVar(&addr, "addr", ":8080", "HTTP サーバーのアドレスを指定します。")

	// 引数を受け取る
	flag.Parse()

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.SetLevel(level)

	if serving {
		if err := serve(addr); err != nil {
			logger.Error("failed to start server: %v", err)
			os.Exit(1)
		}
		return
	}

	sys := units.System(strings.ToUpper(unit_system))
	if sys != "" && !sys.Valid() {
		fmt.Fprintf(os.Stderr, "invalid unit system: %q\n", unit_system)
		os.Exit(2)
	}
	if project_path == "" {
		flag.Usage()
		os.Exit(2)
	}

	start := time.Now()

	err = run(Config{
		ProjectPath:    project_path,
		OutputDataDir:  output_data_dir,
		IsCSVSaved:     csv_saved,
		IsProjectSaved: project_saved,
		UnitSystem:     sys,
	}, os.Stdout)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	elapsedTime := time.Since(start)
	logger.Info("elapsed_time: %v [sec]", elapsedTime)
}
