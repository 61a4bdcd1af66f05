package resp

import (
	"math"
	"math/big"
	"testing"
)

// ============================================================
// Serialize Tests - Scalars
// ============================================================

func TestSerialize_Scalars(t *testing.T) {
	bigPos, _ := new(big.Int).SetString("298416298361318972639172639182763918263981267391826379128", 10)
	bigNeg, _ := new(big.Int).SetString("-298416298361318972639172639182763918263981267391826379128", 10)

	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "null", value: Null(), want: "_\r\n"},
		{name: "zero value is null", value: Value{}, want: "_\r\n"},
		{name: "boolean true", value: Bool(true), want: "#t\r\n"},
		{name: "boolean false", value: Bool(false), want: "#f\r\n"},
		{name: "positive integer", value: Int(42), want: ":42\r\n"},
		{name: "negative integer", value: Int(-42), want: ":-42\r\n"},
		{name: "min int64", value: Int(math.MinInt64), want: ":-9223372036854775808\r\n"},
		{name: "positive big number", value: BigInt(bigPos), want: "(298416298361318972639172639182763918263981267391826379128\r\n"},
		{name: "negative big number", value: BigInt(bigNeg), want: "(-298416298361318972639172639182763918263981267391826379128\r\n"},
		{name: "nil big number", value: BigInt(nil), want: "(0\r\n"},
		{name: "double without fraction", value: Double(3), want: ",3\r\n"},
		{name: "double with fraction", value: Double(3.141592), want: ",3.141592\r\n"},
		{name: "negative double", value: Double(-0.5), want: ",-0.5\r\n"},
		{name: "double infinity", value: Double(math.Inf(1)), want: ",inf\r\n"},
		{name: "double negative infinity", value: Double(math.Inf(-1)), want: ",-inf\r\n"},
		{name: "double not a number", value: Double(math.NaN()), want: ",nan\r\n"},
		{name: "simple string", value: SimpleString("OK"), want: "+OK\r\n"},
		{name: "simple error", value: SimpleError("ERR Some error"), want: "-ERR Some error\r\n"},
		{name: "bulk string", value: BulkString("Some string"), want: "$11\r\nSome string\r\n"},
		{name: "empty bulk string", value: BulkString(""), want: "$0\r\n"},
		{name: "bulk string with CRLF", value: BulkString("a\r\nb"), want: "$4\r\na\r\nb\r\n"},
		{name: "bulk string length is bytes", value: BulkString("héllo"), want: "$6\r\nhéllo\r\n"},
		{name: "bulk error", value: BulkError("Some error"), want: "!10\r\nSome error\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Serialize(tt.value))
			if got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ============================================================
// Serialize Tests - Arrays
// ============================================================

func TestSerialize_Arrays(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{
			name:  "flat array",
			value: Array(BulkString("Foo"), Int(42), Bool(true)),
			want:  "*3\r\n$3\r\nFoo\r\n:42\r\n#t\r\n",
		},
		{
			name:  "nested array",
			value: Array(BulkString("Foo"), Array(Bool(true), Int(42))),
			want:  "*2\r\n$3\r\nFoo\r\n*2\r\n#t\r\n:42\r\n",
		},
		{
			name:  "empty array",
			value: Array(),
			want:  "*0\r\n",
		},
		{
			name:  "array of bulk strings",
			value: Strings("DEL", "foo", "bar", "baz"),
			want:  "*4\r\n$3\r\nDEL\r\n$3\r\nfoo\r\n$3\r\nbar\r\n$3\r\nbaz\r\n",
		},
		{
			name:  "array with null and empty string",
			value: Array(Null(), BulkString("")),
			want:  "*2\r\n_\r\n$0\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Serialize(tt.value))
			if got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendValue_ExtendsBuffer(t *testing.T) {
	buf := []byte("prefix:")
	buf = AppendValue(buf, Int(7))
	buf = AppendValue(buf, SimpleString("OK"))

	if got, want := string(buf), "prefix::7\r\n+OK\r\n"; got != want {
		t.Errorf("AppendValue() = %q, want %q", got, want)
	}
}

func TestSerialize_SimpleTypesNeverEmbedCRLF(t *testing.T) {
	got := string(Serialize(SimpleError("ERR line one\r\nline two")))
	want := "-ERR line one  line two\r\n"
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}
