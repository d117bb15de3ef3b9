package notation

// commandArity maps known control sequences (without backslash) to the number
// of mandatory arguments they take.
var commandArity = map[string]int{}

var nullary = []string{
	// Greek
	"alpha", "beta", "gamma", "delta", "epsilon", "varepsilon", "zeta", "eta", "theta", "vartheta",
	"iota", "kappa", "lambda", "mu", "nu", "xi", "pi", "varpi", "rho", "varrho", "sigma", "varsigma",
	"tau", "upsilon", "phi", "varphi", "chi", "psi", "omega",
	"Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi", "Sigma", "Upsilon", "Phi", "Psi", "Omega",
	// Large operators and named functions
	"sum", "prod", "coprod", "int", "iint", "iiint", "oint", "bigcup", "bigcap", "bigoplus", "bigotimes",
	"lim", "limsup", "liminf", "sup", "inf", "max", "min", "log", "lg", "ln", "exp",
	"sin", "cos", "tan", "cot", "sec", "csc", "arcsin", "arccos", "arctan", "sinh", "cosh", "tanh", "coth",
	"det", "dim", "ker", "gcd", "deg", "arg", "Pr", "hom", "bmod",
	// Relations and logic
	"leq", "le", "geq", "ge", "neq", "ne", "approx", "equiv", "sim", "simeq", "cong", "propto",
	"in", "notin", "ni", "subset", "subseteq", "supset", "supseteq", "subsetneq", "cup", "cap", "setminus",
	"emptyset", "varnothing", "forall", "exists", "nexists", "neg", "lnot", "land", "lor", "wedge", "vee",
	"ll", "gg", "prec", "succ", "preceq", "succeq", "perp", "parallel", "mid", "nmid", "models", "vdash",
	"dashv", "top", "bot", "because", "therefore", "not",
	// Arrows
	"to", "gets", "rightarrow", "leftarrow", "Rightarrow", "Leftarrow", "leftrightarrow", "Leftrightarrow",
	"longrightarrow", "longleftarrow", "Longrightarrow", "Longleftarrow", "implies", "impliedby", "iff",
	"mapsto", "longmapsto", "uparrow", "downarrow", "Uparrow", "Downarrow", "nearrow", "searrow",
	"hookrightarrow", "rightleftharpoons",
	// Binary operators and symbols
	"infty", "partial", "nabla", "pm", "mp", "times", "div", "cdot", "cdotp", "cdots", "ldots", "dots",
	"vdots", "ddots", "circ", "bullet", "star", "ast", "oplus", "ominus", "otimes", "odot", "angle",
	"triangle", "square", "prime", "ell", "hbar", "Re", "Im", "aleph", "imath", "jmath", "wp", "colon",
	"dagger", "ddagger", "S", "P", "checkmark", "flat", "sharp", "natural", "clubsuit", "diamondsuit",
	"heartsuit", "spadesuit", "lbrace", "rbrace", "backslash", "surd",
	// Delimiters
	"langle", "rangle", "lfloor", "rfloor", "lceil", "rceil", "vert", "Vert", "lvert", "rvert",
	"lVert", "rVert", "lbrack", "rbrack",
	// Spacing and sizing
	"quad", "qquad", "displaystyle", "textstyle", "scriptstyle", "scriptscriptstyle",
	"big", "Big", "bigg", "Bigg", "bigl", "bigr", "Bigl", "Bigr", "biggl", "biggr", "Biggl", "Biggr",
	"tiny", "small", "normalsize", "large", "Large", "LARGE", "huge", "Huge", "nonumber", "notag",
	"cr", "hline", "newline",
}

var unary = []string{
	"text", "textbf", "textit", "textrm", "textsf", "texttt", "textnormal", "mbox",
	"mathrm", "mathbf", "mathit", "mathcal", "mathbb", "mathfrak", "mathsf", "mathtt", "mathscr",
	"boldsymbol", "bm", "operatorname", "hat", "bar", "vec", "dot", "ddot", "tilde", "check", "breve",
	"acute", "grave", "widehat", "widetilde", "overline", "underline", "overbrace", "underbrace",
	"overrightarrow", "overleftarrow", "phantom", "hphantom", "vphantom", "pmod", "pod", "cancel",
	"boxed", "tag", "label", "xrightarrow", "xleftarrow", "color",
}

var binary = []string{
	"frac", "dfrac", "tfrac", "cfrac", "binom", "dbinom", "tbinom", "overset", "underset", "stackrel",
	"textcolor", "colorbox",
}

func init() {
	for _, n := range nullary {
		commandArity[n] = 0
	}
	for _, n := range unary {
		commandArity[n] = 1
	}
	for _, n := range binary {
		commandArity[n] = 2
	}
}

// escapedSymbols are single-character control sequences
var escapedSymbols = map[string]bool{
	`\`: true, ",": true, ";": true, ":": true, "!": true, " ": true, "{": true, "}": true,
	"$": true, "%": true, "&": true, "#": true, "_": true, "|": true, ">": true,
}

var delimiterCommands = map[string]bool{
	"{": true, "}": true, "|": true, "langle": true, "rangle": true, "lfloor": true, "rfloor": true,
	"lceil": true, "rceil": true, "vert": true, "Vert": true, "lvert": true, "rvert": true,
	"lVert": true, "rVert": true, "uparrow": true, "downarrow": true, "Uparrow": true,
	"Downarrow": true, "lbrace": true, "rbrace": true, "backslash": true, "lbrack": true, "rbrack": true,
}

var environments = map[string]bool{
	"matrix": true, "pmatrix": true, "bmatrix": true, "Bmatrix": true, "vmatrix": true, "Vmatrix": true,
	"smallmatrix": true, "cases": true, "dcases": true, "rcases": true, "aligned": true, "align": true,
	"align*": true, "alignat": true, "gathered": true, "gather": true, "gather*": true, "split": true,
	"equation": true, "equation*": true, "array": true, "darray": true, "subarray": true,
}
