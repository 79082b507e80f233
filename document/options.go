package document

import (
	"go.uber.org/zap"

	"github.com/ByLCY/folio/layout"
)

// Option configures Build and Render.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	data      any
	parallel  bool
	newSolver func() layout.Solver
	debug     *[]layout.PageSnapshot
	debugOpts layout.DebugOptions
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithData 设置文本中 ${path} 占位符的数据源。
func WithData(data any) Option {
	return func(o *options) { o.data = data }
}

// WithParallel 并行构建各页的布局树与渲染树；绘制仍按文档顺序串行。
func WithParallel(parallel bool) Option {
	return func(o *options) { o.parallel = parallel }
}

// WithSolver replaces the layout solver factory.
func WithSolver(newSolver func() layout.Solver) Option {
	return func(o *options) { o.newSolver = newSolver }
}

// WithLayoutSnapshots 在构建成功后把每页的布局快照写入 dst。
func WithLayoutSnapshots(dst *[]layout.PageSnapshot, opts layout.DebugOptions) Option {
	return func(o *options) {
		o.debug = dst
		o.debugOpts = opts
	}
}
