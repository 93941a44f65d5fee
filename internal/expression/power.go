package expression

// bindingPower is the pair of powers of an infix operator. The infix loop
// keeps going while left >= the current minimum, so left < right makes the
// operator left associative and left > right right associative.
type bindingPower struct {
	left, right uint8
}

var infixOperatorBindingPowerMap = map[string]bindingPower{
	"=":   {4, 3},
	":":   {5, 6},
	"to":  {7, 8},
	"or":  {9, 10},
	"xor": {11, 12},
	"and": {13, 14},
	"==":  {15, 16},
	">":   {17, 18},
	"<":   {17, 18},
	">=":  {17, 18},
	"<=":  {17, 18},
	"+":   {19, 20},
	"-":   {19, 20},
	"*":   {21, 22},
	"/":   {21, 22},
	"(":   {25, 26},
	".":   {28, 29},
}

var prefixOperatorBindingPowerMap = map[string]uint8{
	"var": 2,
	"-":   23,
	"not": 23,
}

// InfixPower returns the binding powers of an infix operator.
func InfixPower(op string) (left, right uint8, ok bool) {
	bp, ok := infixOperatorBindingPowerMap[op]
	return bp.left, bp.right, ok
}

// PrefixPower returns the binding power of a prefix operator.
func PrefixPower(op string) (power uint8, ok bool) {
	power, ok = prefixOperatorBindingPowerMap[op]
	return power, ok
}
