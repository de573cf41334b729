package format_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/sharp/format"
)

func TestLineEncoder(t *testing.T) {
	root := parse(t, "namespace App\n{\n"+
		"    public sealed class Foo\n    {\n"+
		"        private readonly int _a, _b;\n"+
		"        public string Name { get; }\n"+
		"        public Foo(int a, string b) { }\n"+
		"        internal static void Run(List<int> xs) { int local = 1; }\n"+
		"        struct Point { double X; }\n"+
		"    }\n}\n")

	var buf bytes.Buffer
	require.NoError(t, format.NewEncoder("lines", &buf, false).Encode(root))
	assert.Equal(t, ""+
		"class\tFoo\tpublic,sealed\n"+
		"field\t_a\tint\tprivate,readonly\n"+
		"field\t_b\tint\tprivate,readonly\n"+
		"property\tName\tstring\tpublic\n"+
		"constructor\tFoo\tint,string\tpublic\n"+
		"method\tRun\tvoid\tList<int>\tinternal,static\n"+
		"struct\tPoint\t-\n"+
		"field\tX\tdouble\t-\n", buf.String())
}
