package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/folio/assets"
	"github.com/ByLCY/folio/config"
	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/folio/renderer/fpdf"
	"github.com/ByLCY/folio/renderer/record"
)

var backends = map[string]renderer.NewFunc{
	config.BackendCanvas: canvasrenderer.New,
	config.BackendFPDF:   fpdfrenderer.New,
	config.BackendTrace:  record.New,
}

type renderFlags struct {
	output string
	data   string
	fonts  map[string]string
	images map[string]string

	stylesChanged bool
}

func newRenderCommand(a *app) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a markup file",
		Long: `Render parses the markup file, lays out every page against the style sheet
and writes the result with the selected backend (canvas, fpdf or trace).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.stylesChanged = cmd.Flags().Changed("styles")
			return a.render(args[0], f)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "out", "o", "", "output path (default: input name with .pdf or .json)")
	flags.StringVar(&f.data, "data", "", "JSON file bound to ${...} placeholders")
	flags.StringToStringVar(&f.fonts, "font", nil, "font key=source, source may be builtin:<name> (repeatable)")
	flags.StringToStringVar(&f.images, "image", nil, "image key=path (repeatable)")
	flags.String("styles", "", "YAML style sheet")
	flags.String("backend", "", "canvas, fpdf or trace")
	flags.Bool("parallel", false, "build pages concurrently")
	flags.String("debug", "", "write solved layout geometry as JSON to this path (- for stdout)")
	for _, name := range []string{"styles", "backend", "parallel", "debug"} {
		_ = a.v.BindPFlag("render."+name, flags.Lookup(name))
	}
	return cmd
}

func (a *app) render(input string, f *renderFlags) error {
	rc := a.cfg.Render
	logger := a.logger.With(zap.String("input", input))

	root, err := parseFile(input)
	if err != nil {
		return err
	}
	elements := 0
	root.Walk(func(*dsl.Element) bool {
		elements++
		return true
	})
	logger.Debug("markup parsed", zap.Int("elements", elements))

	// 配置文件中的相对路径以配置文件所在目录为根，命令行参数以当前目录为根。
	set := assets.NewSet()
	loader := assets.Loader{}
	if used := a.v.ConfigFileUsed(); used != "" {
		loader.BaseDir = filepath.Dir(used)
	}
	if styles := rc.Styles; styles != "" {
		if f.stylesChanged && !strings.HasPrefix(styles, "~") {
			if abs, err := filepath.Abs(styles); err == nil {
				styles = abs
			}
		}
		if err := loader.LoadStyleSheet(set, styles); err != nil {
			return err
		}
	}
	if err := loader.LoadFonts(set, merge(rc.Fonts, absSources(f.fonts))); err != nil {
		return err
	}
	if err := loader.LoadImages(set, merge(rc.Images, absSources(f.images))); err != nil {
		return err
	}
	logger.Debug("assets loaded",
		zap.Int("styles", len(set.Styles.Keys())),
		zap.Int("fonts", set.Fonts.Len()),
	)

	opts := []document.Option{
		document.WithLogger(logger),
		document.WithParallel(rc.Parallel),
	}
	if f.data != "" {
		data, err := readData(f.data)
		if err != nil {
			return err
		}
		opts = append(opts, document.WithData(data))
	}
	var snaps []layout.PageSnapshot
	if rc.Debug != "" {
		opts = append(opts, document.WithLayoutSnapshots(&snaps, layout.DebugOptions{ResolvedStyles: true}))
	}

	var buf bytes.Buffer
	if err := document.Render(&buf, root, set, backends[rc.Backend], opts...); err != nil {
		return fmt.Errorf("渲染 %s 失败: %w", input, err)
	}

	if rc.Debug != "" {
		if err := writeDebug(a.stdout, snaps, rc.Debug); err != nil {
			return fmt.Errorf("写入布局调试文件失败: %w", err)
		}
	}

	output := f.output
	if output == "" {
		output = defaultOutput(input, rc.Backend)
	}
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", output, err)
	}
	logger.Info("document rendered",
		zap.String("output", output),
		zap.String("backend", rc.Backend),
		zap.Int("bytes", buf.Len()),
	)
	return nil
}

func parseFile(path string) (*dsl.Element, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开标记文件 %s: %w", path, err)
	}
	defer file.Close()
	root, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// writeDebug writes layout snapshots to path, or to w when path is "-".
func writeDebug(w io.Writer, snaps []layout.PageSnapshot, path string) error {
	if path == "-" {
		return layout.EncodeDebugJSON(w, snaps)
	}
	return layout.WriteDebugJSON(snaps, path)
}

func readData(path string) (any, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据 JSON 失败: %w", err)
	}
	return data, nil
}

// merge returns base overlaid with override; flags win over config.
func merge(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// absSources anchors relative command line paths at the working directory.
func absSources(sources map[string]string) map[string]string {
	out := make(map[string]string, len(sources))
	for k, v := range sources {
		if !fonts.IsBuiltin(v) && !strings.HasPrefix(v, "~") {
			if abs, err := filepath.Abs(v); err == nil {
				v = abs
			}
		}
		out[k] = v
	}
	return out
}

func defaultOutput(input, backend string) string {
	ext := ".pdf"
	if backend == config.BackendTrace {
		ext = ".json"
	}
	return input[:len(input)-len(filepath.Ext(input))] + ext
}
