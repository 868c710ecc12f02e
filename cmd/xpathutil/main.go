// Command xpathutil is a test harness for the XPath evaluator: it
// reads an XML document and an expression, optionally restricts the
// context node with an initial expression, optionally binds a YANG
// module set, and prints either the evaluation result or the
// canonicalized expression.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andaru/netconfd/dom"
	"github.com/andaru/netconfd/xmlcodec"
	"github.com/andaru/netconfd/xpath"
	"github.com/andaru/netconfd/yangmodel"
)

// nsFlag collects repeated -n prefix:uri arguments into an xpath.NSC.
type nsFlag xpath.NSC

func (f nsFlag) String() string {
	var parts []string
	for p, u := range f {
		parts = append(parts, p+":"+u)
	}
	return strings.Join(parts, ",")
}

func (f nsFlag) Set(v string) error {
	prefix, uri, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("xpathutil: -n expects prefix:uri, got %q", v)
	}
	f[prefix] = uri
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xpathutil", flag.ContinueOnError)
	fs.SetOutput(stderr)

	xmlFile := fs.String("f", "", "XML document file (stdin if absent)")
	expr := fs.String("p", "", "xpath expression (first line of stdin if absent)")
	initExpr := fs.String("i", "", "initial xpath narrowing the context node before -p is evaluated")
	canon := fs.Bool("c", false, "canonicalize -p instead of evaluating it")
	yangPath := fs.String("y", "", "YANG file or directory to load")
	nsc := nsFlag{}
	fs.Var(nsc, "n", "namespace binding prefix:uri (repeatable)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	in := bufio.NewReader(stdin)

	if *expr == "" {
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(stderr, "xpathutil: no -p and no expression on stdin")
			return 1
		}
		*expr = strings.TrimRight(line, "\r\n")
	}

	var xmlSrc io.Reader = in
	if *xmlFile != "" {
		f, err := os.Open(*xmlFile)
		if err != nil {
			fmt.Fprintf(stderr, "xpathutil: %v\n", err)
			return 1
		}
		defer f.Close()
		xmlSrc = f
	}

	var modules *yangmodel.Collection
	if *yangPath != "" {
		var err error
		modules, err = loadModules(*yangPath)
		if err != nil {
			fmt.Fprintf(stderr, "xpathutil: %v\n", err)
			return 1
		}
	}

	res, err := xmlcodec.Parse(xmlSrc)
	if err != nil {
		fmt.Fprintf(stderr, "xpathutil: parse: %v\n", err)
		return 1
	}
	root := firstElement(res.Node)
	if root == nil {
		fmt.Fprintln(stderr, "xpathutil: empty document")
		return 1
	}

	ctxNode := root
	if *initExpr != "" {
		ictx, err := xpath.Eval(*initExpr, root, xpath.NSC(nsc))
		if err != nil {
			fmt.Fprintf(stderr, "xpathutil: -i: %v\n", err)
			return 1
		}
		if ictx.Type != xpath.NodesetResult || len(ictx.Nodeset) == 0 {
			fmt.Fprintln(stderr, "xpathutil: -i did not select a node")
			return 1
		}
		ctxNode = ictx.Nodeset[0]
	}

	if *canon {
		out, _, err := xpath.Canonicalize(*expr, xpath.NSC(nsc), modules)
		if err != nil {
			fmt.Fprintf(stderr, "xpathutil: canonicalize: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, out)
		return 0
	}

	result, err := xpath.Eval(*expr, ctxNode, xpath.NSC(nsc))
	if err != nil {
		fmt.Fprintf(stderr, "xpathutil: eval: %v\n", err)
		return 1
	}
	printResult(stdout, result)
	return 0
}

func printResult(w io.Writer, r *xpath.Context) {
	switch r.Type {
	case xpath.NodesetResult:
		for _, n := range r.Nodeset {
			fmt.Fprintln(w, xmlcodec.Pretty(n, -1))
		}
	case xpath.BooleanResult:
		fmt.Fprintln(w, r.Bool)
	case xpath.NumberResult:
		fmt.Fprintln(w, r.Num)
	case xpath.StringResult:
		fmt.Fprintln(w, r.Str)
	}
}

func firstElement(n dom.Node) dom.Node {
	if n == nil {
		return nil
	}
	if n.NodeType() == dom.NodeTypeElement {
		return n
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.NodeType() == dom.NodeTypeElement {
			return c
		}
	}
	return nil
}

// loadModules loads a single YANG file or every .yang file under a
// directory into a fresh Collection.
func loadModules(path string) (*yangmodel.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		yangmodel.SetYANGPath(path)
		c := yangmodel.NewCollection()
		if errs := c.ImportAll(); len(errs) > 0 {
			return nil, errs[0]
		}
		if errs := c.Process(); len(errs) > 0 {
			return nil, errs[0]
		}
		return c, nil
	}

	yangmodel.SetYANGPath(filepath.Dir(path))
	c := yangmodel.NewCollection()
	name := moduleNameFromFile(path)
	if err := c.Import(name); err != nil {
		return nil, err
	}
	if errs := c.Process(); len(errs) > 0 {
		return nil, errs[0]
	}
	return c, nil
}

func moduleNameFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".yang")
	if i := strings.Index(base, "@"); i >= 0 {
		base = base[:i]
	}
	return base
}
