package convsim

// Options is the root command that groups sub-commands.  The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Version   bool          `short:"v" long:"version" description:"print version and exit"`
	Config    string        `short:"f" long:"config" description:"config YAML path or URL"`
	Events    string        `long:"events" description:"file to append LLM and turn events as JSON lines"`
	Simulate  *SimulateCmd  `command:"simulate" description:"Run a single simulated conversation"`
	Batch     *BatchCmd     `command:"batch" description:"Run one simulation per user agent template"`
	Serve     *ServeCmd     `command:"serve" description:"Start HTTP server"`
	Show      *ShowCmd      `command:"show" description:"List or print saved transcripts"`
	Templates *TemplatesCmd `command:"templates" description:"List persona templates"`
	Judge     *JudgeCmd     `command:"judge" description:"Score a saved transcript with a judge model"`
}

// Init instantiates the sub-command referenced by the first argument so that
// flags.Parse can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "simulate":
		o.Simulate = &SimulateCmd{}
	case "batch":
		o.Batch = &BatchCmd{}
	case "serve":
		o.Serve = &ServeCmd{}
	case "show":
		o.Show = &ShowCmd{}
	case "templates":
		o.Templates = &TemplatesCmd{}
	case "judge":
		o.Judge = &JudgeCmd{}
	}
}
