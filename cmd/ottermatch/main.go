package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/ottermatch/internal/app/run"
	"github.com/John-Robertt/ottermatch/internal/config"
	"github.com/John-Robertt/ottermatch/internal/domain"
	"github.com/John-Robertt/ottermatch/internal/infra/fsx"
	"github.com/John-Robertt/ottermatch/internal/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ottermatch",
		Short: "把会议记录与录音/转写文件配对，输出数据集与审计表",
		// 错误统一由 runMatch 打到 stderr；cobra 只负责用法错误。
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		records string
		out     string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "执行一次匹配（path 为 notes 目录；缺省读 cwd 下的 ottermatch.json）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := config.CLIArgs{
				Records:    records,
				RecordsSet: cmd.Flags().Changed("records"),
				Output:     out,
				OutputSet:  cmd.Flags().Changed("out"),
				Debug:      debug,
				DebugSet:   cmd.Flags().Changed("debug"),
			}
			if len(args) == 1 {
				cli.Path = args[0]
			}
			if code := runMatch(cli); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&records, "records", "", "记录文件（默认 <path>/"+config.DefaultRecordsName+"）")
	cmd.Flags().StringVar(&out, "out", "", "把数据集另写入该文件（stdout 契约不变）")
	cmd.Flags().BoolVar(&debug, "debug", false, "输出打分明细日志（支持 --debug=false 覆盖配置）")
	return cmd
}

func runMatch(cli config.CLIArgs) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	logger := newLogger(eff.Debug)

	var obs run.Observer
	progressW, interactive := pickProgressWriter()
	if interactive {
		obs = newProgressUI(progressW)
	}

	rr, err := run.Execute(eff, logger, obs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	if err := emitDataset(rr, eff.Output); err != nil {
		fmt.Fprintf(os.Stderr, "写入数据集失败：%v\n", err)
		return 1
	}
	emitTables(rr)

	// 警告即“有条目降级”，对齐退出码语义：0 = 全部干净。
	if rr.Summary.Warnings == 0 {
		return 0
	}
	return 1
}

func newLogger(debug bool) *slog.Logger {
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// emitDataset 维持 stdout 契约：非 TTY 时 stdout 只输出一份数据集 JSON；
// TTY 时给一行摘要（完整 JSON 走 --out）。
func emitDataset(rr domain.RunReport, outPath string) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if outPath != "" {
		if err := fsx.WriteFileAtomic(filepath.Dir(outPath), filepath.Base(outPath), b); err != nil {
			return err
		}
	}

	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：total=%d with_recording=%d exact=%d fuzzy=%d ambiguous=%d warnings=%d\n",
			rr.Summary.Total, rr.Summary.WithRecording,
			rr.Summary.Exact, rr.Summary.Fuzzy,
			rr.Summary.Ambiguous, rr.Summary.Warnings,
		)
		if outPath != "" {
			fmt.Fprintf(os.Stdout, "out: %s\n", outPath)
		}
		return nil
	}

	_, err = os.Stdout.Write(b)
	return err
}

func emitTables(rr domain.RunReport) {
	fmt.Fprintln(os.Stderr, report.AuditTable(rr))
	if t := report.AmbiguityTable(rr); t != "" {
		fmt.Fprintln(os.Stderr, t)
	}
}

func isTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func pickProgressWriter() (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	// 仅重定向 stderr 的环境里 stdout 仍可能是 TTY：退化输出到 stdout。
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}
