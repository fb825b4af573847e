package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/rms/sim/machine"
	"github.com/slowlang/rms/sim/ops"
	"github.com/slowlang/rms/sim/parse"
)

func newMachine(t *testing.T) *machine.Machine {
	t.Helper()

	ctx := context.Background()

	x, err := parse.Parse(ctx, []byte(`(
	 start
		(test (op =) (reg a) (const 0))
		(branch (label done))
		(save a)
		(assign a (op -) (reg a) (const 1))
		(goto (label start))
	 never
		(assign a (const never))
	 done)`))
	require.NoError(t, err)

	m, err := machine.New(ctx, []string{"a"}, ops.Standard(), x)
	require.NoError(t, err)

	return m
}

func TestListing(t *testing.T) {
	ctx := context.Background()
	m := newMachine(t)

	b, err := Format(ctx, nil, m.Program())
	require.NoError(t, err)

	assert.Equal(t, `start:
	0	test	(test (op =) (reg a) (const 0))
	1	branch	(branch (label done))
	2	save	(save a)
	3	assign	(assign a (op -) (reg a) (const 1))
	4	goto	(goto (label start))
never:
	5	assign	(assign a (const never))
done:
`, string(b))

	_, err = Format(ctx, nil, 3)
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	m := newMachine(t)

	r, err := m.GetRegister("a")
	require.NoError(t, err)
	r.Set(int64(2))

	err = m.Start(ctx)
	require.NoError(t, err)

	b, err := AppendReport(ctx, nil, m, Report{
		Registers: []string{"a", machine.Flag},
		Stats:     true,
		Coverage:  true,
		Profile:   2,
	})
	require.NoError(t, err)

	assert.Equal(t, `a = 0
flag = true
stats:
	executed	12
	pushes	2
	max depth	2
	depth	2
	covered	5/6
coverage: 5/6
	5	(assign a (const never))
profile:
	3	0	(test (op =) (reg a) (const 0))
	3	1	(branch (label done))
`, string(b))

	_, err = AppendReport(ctx, nil, m, Report{Registers: []string{"zzz"}})
	assert.ErrorIs(t, err, machine.ErrUnknownRegister)
}
