package cgroup

import "strings"

const numberOfControllers = 2

// Controllers is the set of controllers a cgroup is created with
type Controllers struct {
	CPU    bool
	Memory bool
}

func (c *Controllers) Set(ct string, value bool) {
	switch ct {
	case CPU:
		c.CPU = value
	case Memory:
		c.Memory = value
	}
}

// Contains returns true if the current controller enabled all controllers in the other controller
func (c *Controllers) Contains(o *Controllers) bool {
	return (c.CPU || !o.CPU) && (c.Memory || !o.Memory)
}

func (c *Controllers) Names() []string {
	names := make([]string, 0, numberOfControllers)
	for _, v := range []struct {
		e bool
		n string
	}{
		{c.CPU, CPU},
		{c.Memory, Memory},
	} {
		if v.e {
			names = append(names, v.n)
		}
	}
	return names
}

func (c *Controllers) String() string {
	return "[" + strings.Join(c.Names(), ", ") + "]"
}

func parseControllers(content string) *Controllers {
	m := &Controllers{}
	for _, v := range strings.Fields(content) {
		m.Set(v, true)
	}
	return m
}
