/*
Package smartcontract contains functions to deal with widely used scripts and NEP-14 Parameters.
Transaction authorization needs NeoVM code in many places: verification
scripts of standard accounts, invocation scripts pushing signatures or
contract parameters and transaction entry scripts. This package simplifies
creating them with the Builder and standard redeem script helpers, it also
provides JSONized NEP-14 parameters used by signing contexts.
*/
package smartcontract
