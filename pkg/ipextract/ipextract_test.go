package ipextract

import (
	"math/rand"
	"net/netip"
	"regexp"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/ossobv/ipgrep/pkg/ipextract/mock_ipextract"
	"github.com/ossobv/ipgrep/pkg/ipnet"
	"github.com/ossobv/ipgrep/pkg/ipversion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		settings   Settings
		errWrapped error
		errMessage string
	}{
		"defaults": {},
		"empty_accept": {
			settings: Settings{
				Accept: &Accept{},
			},
			errWrapped: ErrAcceptEmpty,
			errMessage: "validating settings: accept set is empty",
		},
		"bad_interface_mode": {
			settings: Settings{
				InterfaceMode: ptrTo(InterfaceMode(9)),
			},
			errWrapped: ErrInterfaceModeUnknown,
			errMessage: "validating settings: interface mode is unknown: 9",
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			extractor, err := New(testCase.settings)

			assert.ErrorIs(t, err, testCase.errWrapped)
			if testCase.errWrapped != nil {
				assert.EqualError(t, err, testCase.errMessage)
				assert.Nil(t, extractor)
			} else {
				assert.NotNil(t, extractor)
			}
		})
	}
}

func Test_Extractor_FindAll(t *testing.T) {
	t.Parallel()

	const interfaceLine = `  ipv4.address1: "10.20.30.123/24,10.20.30.1"`

	testCases := map[string]struct {
		settings   Settings
		line       string
		candidates []Candidate
	}{
		"treat_interface_as_ip": {
			settings: Settings{
				InterfaceMode: ptrTo(TreatAsIP),
			},
			line: interfaceLine,
			candidates: []Candidate{
				{Span: Span{Start: 18, End: 33}, Net: ipnet.MustParse("10.20.30.123/32")},
				{Span: Span{Start: 34, End: 44}, Net: ipnet.MustParse("10.20.30.1/32")},
			},
		},
		"treat_interface_as_network": {
			settings: Settings{
				InterfaceMode: ptrTo(TreatAsNetwork),
			},
			line: interfaceLine,
			candidates: []Candidate{
				{Span: Span{Start: 18, End: 33}, Net: ipnet.MustParse("10.20.30.0/24")},
				{Span: Span{Start: 34, End: 44}, Net: ipnet.MustParse("10.20.30.1/32")},
			},
		},
		"interfaces_not_accepted": {
			settings: Settings{
				Accept: &Accept{IP: true, Net: true},
			},
			line: interfaceLine,
			candidates: []Candidate{
				{Span: Span{Start: 34, End: 44}, Net: ipnet.MustParse("10.20.30.1/32")},
			},
		},
		"networks_only": {
			settings: Settings{
				Accept: &Accept{Net: true},
			},
			line: "1.2.3.4 and 10.0.0.0/8",
			candidates: []Candidate{
				{Span: Span{Start: 12, End: 22}, Net: ipnet.MustParse("10.0.0.0/8")},
			},
		},
		"addresses_only_truncates_networks": {
			settings: Settings{
				Accept: &Accept{IP: true},
			},
			line: "10.0.0.0/8 1.2.3.4",
			candidates: []Candidate{
				{Span: Span{Start: 0, End: 8}, Net: ipnet.MustParse("10.0.0.0/32")},
				{Span: Span{Start: 11, End: 18}, Net: ipnet.MustParse("1.2.3.4/32")},
			},
		},
		"addresses_and_interfaces_skip_networks": {
			settings: Settings{
				Accept: &Accept{IP: true, Iface: true},
			},
			line: "10.0.0.0/8 10.0.0.1/8",
			candidates: []Candidate{
				{Span: Span{Start: 11, End: 21}, Net: ipnet.MustParse("10.0.0.1/32")},
			},
		},
		"old_networks_only": {
			settings: Settings{
				Accept: &Accept{OldNet: true},
			},
			line: "10.0.0.0/8 and 128.128.0.0/255.255.0.0",
			candidates: []Candidate{
				{Span: Span{Start: 15, End: 38}, Net: ipnet.MustParse("128.128.0.0/16")},
			},
		},
		"old_networks_disabled": {
			line: "128.128.0.0/255.255.0.0",
			candidates: []Candidate{
				{Span: Span{Start: 0, End: 11}, Net: ipnet.MustParse("128.128.0.0")},
				{Span: Span{Start: 12, End: 23}, Net: ipnet.MustParse("255.255.0.0")},
			},
		},
		"ipv4_only": {
			settings: Settings{
				IPVersion: ptrTo(ipversion.IP4),
			},
			line: "::1 ::ffff:1.2.3.4 1.2.3.4",
			candidates: []Candidate{
				{Span: Span{Start: 19, End: 26}, Net: ipnet.MustParse("1.2.3.4")},
			},
		},
		"ipv6_only": {
			settings: Settings{
				IPVersion: ptrTo(ipversion.IP6),
			},
			line: "::1 1.2.3.4",
			candidates: []Candidate{
				{Span: Span{Start: 0, End: 3}, Net: ipnet.MustParse("::1")},
			},
		},
		"ipv6_trailing_colon": {
			line: "sshd: connection from 2001:db8::5: refused",
			candidates: []Candidate{
				{Span: Span{Start: 22, End: 33}, Net: ipnet.MustParse("2001:db8::5")},
			},
		},
		"hex_word_glued_to_dotted_run": {
			line: "abc1.2.3.4.5 x",
		},
		"semantic_failures": {
			line: "999.999.999.999 1.2.3.4/33 12:34:56",
		},
		"no_deduplication": {
			line: "1.2.3.4 1.2.3.4",
			candidates: []Candidate{
				{Span: Span{Start: 0, End: 7}, Net: ipnet.MustParse("1.2.3.4")},
				{Span: Span{Start: 8, End: 15}, Net: ipnet.MustParse("1.2.3.4")},
			},
		},
		"prefilter_rejects": {
			line: "no address on this line",
		},
		"prefilter_disabled": {
			settings: Settings{
				DisablePrefilter: ptrTo(true),
			},
			line: "plain 1.2.3.4 end",
			candidates: []Candidate{
				{Span: Span{Start: 6, End: 13}, Net: ipnet.MustParse("1.2.3.4")},
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			extractor, err := New(testCase.settings)
			require.NoError(t, err)

			candidates := extractor.FindAll([]byte(testCase.line))

			assert.Equal(t, testCase.candidates, candidates)
		})
	}
}

func Test_Extractor_complainAndSkip(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	warner := mock_ipextract.NewMockWarner(ctrl)
	warner.EXPECT().Warn("ignoring interface address with host bits set: 10.20.30.123/24")

	extractor, err := New(Settings{
		InterfaceMode: ptrTo(ComplainAndSkip),
		Warner:        warner,
	})
	require.NoError(t, err)

	candidates := extractor.FindAll([]byte(`  ipv4.address1: "10.20.30.123/24,10.20.30.1"`))

	expected := []Candidate{
		{Span: Span{Start: 34, End: 44}, Net: ipnet.MustParse("10.20.30.1/32")},
	}
	assert.Equal(t, expected, candidates)
}

func Test_Extractor_AppendAll(t *testing.T) {
	t.Parallel()

	extractor, err := New(Settings{})
	require.NoError(t, err)

	candidates := make([]Candidate, 0, 4)
	candidates = extractor.AppendAll(candidates, []byte("1.2.3.4"))
	candidates = extractor.AppendAll(candidates, []byte("::1"))

	expected := []Candidate{
		{Span: Span{Start: 0, End: 7}, Net: ipnet.MustParse("1.2.3.4")},
		{Span: Span{Start: 0, End: 3}, Net: ipnet.MustParse("::1")},
	}
	assert.Equal(t, expected, candidates)
}

func Test_Settings_String(t *testing.T) {
	t.Parallel()

	var settings Settings
	settings.SetDefaults()

	const expected = `Extraction
├── Accept: ip,net,iface
├── Interface mode: ip
├── IP version: ip4or6
└── Prefilter: yes`
	assert.Equal(t, expected, settings.String())
}

func Test_ParseAccept(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		values     []string
		accept     Accept
		errWrapped error
	}{
		"empty": {
			errWrapped: ErrAcceptEmpty,
		},
		"all_names": {
			values: []string{"ip,net", "oldnet", "iface"},
			accept: Accept{IP: true, Net: true, OldNet: true, Iface: true},
		},
		"aliases": {
			values: []string{"n,o,if"},
			accept: Accept{Net: true, OldNet: true, Iface: true},
		},
		"unknown": {
			values:     []string{"ip,host"},
			errWrapped: ErrAcceptUnknown,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			accept, err := ParseAccept(testCase.values)

			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.accept, accept)
		})
	}
}

func Test_ParseInterfaceMode(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		s          string
		mode       InterfaceMode
		errWrapped error
	}{
		"ip":             {s: "ip", mode: TreatAsIP},
		"net":            {s: "net", mode: TreatAsNetwork},
		"net_alias":      {s: "n", mode: TreatAsNetwork},
		"complain":       {s: "complain", mode: ComplainAndSkip},
		"complain_alias": {s: "C", mode: ComplainAndSkip},
		"unknown":        {s: "skip", errWrapped: ErrInterfaceModeUnknown},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mode, err := ParseInterfaceMode(testCase.s)

			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.mode, mode)
		})
	}
}

func Fuzz_Extractor_prefilter(f *testing.F) {
	ipVersions := []ipversion.IPVersion{ipversion.IP4or6, ipversion.IP4, ipversion.IP6}
	withPrefilter := make([]*Extractor, len(ipVersions))
	withoutPrefilter := make([]*Extractor, len(ipVersions))
	for i, ipVersion := range ipVersions {
		settings := Settings{
			Accept:    &Accept{IP: true, Net: true, OldNet: true, Iface: true},
			IPVersion: ptrTo(ipVersion),
		}
		var err error
		withPrefilter[i], err = New(settings)
		if err != nil {
			f.Fatal(err)
		}
		settings.DisablePrefilter = ptrTo(true)
		withoutPrefilter[i], err = New(settings)
		if err != nil {
			f.Fatal(err)
		}
	}

	f.Add([]byte("v6 ::1, ::ffff:10.0.0.1/127 and fd4e:3732:3033::1/64"))
	f.Add([]byte("128.128.0.0/255.255.0.0"))
	f.Add([]byte("peer fe80::1: down"))
	f.Fuzz(func(t *testing.T, line []byte) {
		for i, ipVersion := range ipVersions {
			assert.Equal(t, withoutPrefilter[i].FindAll(line), withPrefilter[i].FindAll(line),
				"ip version %s", ipVersion)
		}
	})
}

func Benchmark_Extractor_FindAll(b *testing.B) {
	extractor, err := New(Settings{})
	if err != nil {
		b.Fatal(err)
	}
	line := benchmarkLine()

	b.ResetTimer()
	candidates := make([]Candidate, 0, 8)
	for i := 0; i < b.N; i++ {
		candidates = extractor.AppendAll(candidates[:0], line)
	}
}

func Benchmark_Regexp_FindAll(b *testing.B) {
	regex := regexp.MustCompile(`[0-9]{1,3}(\.[0-9]{1,3}){3}(/[0-9]{1,2})?|` +
		`[0-9a-fA-F]*:[0-9a-fA-F:]+(/[0-9]{1,3})?`)
	line := benchmarkLine()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = regex.FindAllIndex(line, -1)
	}
}

func benchmarkLine() []byte {
	source := rand.NewSource(time.Now().UnixNano())
	generator := rand.New(source) //nolint:gosec

	return []byte("garbage " +
		generateIPv6(generator) +
		" 192.168.0.1/24, ::99999 " +
		generateIPv6(generator) +
		" 1.2.3.4.5 " +
		generateIPv6(generator) +
		" fac00 and a long tail of words without any address in them")
}

func generateIPv6(generator *rand.Rand) string {
	ipv6Bytes := make([]byte, 16)
	_, err := generator.Read(ipv6Bytes)
	if err != nil {
		panic(err)
	}
	return netip.AddrFrom16([16]byte(ipv6Bytes)).String()
}
