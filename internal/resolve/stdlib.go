package resolve

// stdlibModules holds the common standard-library top-level names. A
// reference whose first segment lands here is never resolved to a file,
// even when the tree contains a module shadowing it.
var stdlibModules = map[string]struct{}{
	"abc":             {},
	"argparse":        {},
	"ast":             {},
	"asyncio":         {},
	"base64":          {},
	"bisect":          {},
	"builtins":        {},
	"collections":     {},
	"contextlib":      {},
	"copy":            {},
	"csv":             {},
	"dataclasses":     {},
	"datetime":        {},
	"decimal":         {},
	"dis":             {},
	"enum":            {},
	"functools":       {},
	"gc":              {},
	"glob":            {},
	"hashlib":         {},
	"heapq":           {},
	"http":            {},
	"importlib":       {},
	"inspect":         {},
	"io":              {},
	"itertools":       {},
	"json":            {},
	"logging":         {},
	"math":            {},
	"multiprocessing": {},
	"os":              {},
	"pathlib":         {},
	"pickle":          {},
	"platform":        {},
	"queue":           {},
	"random":          {},
	"re":              {},
	"shutil":          {},
	"signal":          {},
	"socket":          {},
	"sqlite3":         {},
	"string":          {},
	"struct":          {},
	"subprocess":      {},
	"sys":             {},
	"tempfile":        {},
	"textwrap":        {},
	"threading":       {},
	"time":            {},
	"timeit":          {},
	"traceback":       {},
	"typing":          {},
	"unittest":        {},
	"urllib":          {},
	"uuid":            {},
	"warnings":        {},
	"weakref":         {},
	"xml":             {},
	"zipfile":         {},
}
