package interopnames

// Names of the interops used by standard verification and invocation scripts.
const (
	SystemContractCall                  = "System.Contract.Call"
	SystemContractCreateStandardAccount = "System.Contract.CreateStandardAccount"
	SystemContractCreateMultisigAccount = "System.Contract.CreateMultisigAccount"
	SystemCryptoCheckMultisig           = "System.Crypto.CheckMultisig"
	SystemCryptoCheckSig                = "System.Crypto.CheckSig"
	SystemRuntimeCheckWitness           = "System.Runtime.CheckWitness"
)

var names = []string{
	SystemContractCall,
	SystemContractCreateStandardAccount,
	SystemContractCreateMultisigAccount,
	SystemCryptoCheckMultisig,
	SystemCryptoCheckSig,
	SystemRuntimeCheckWitness,
}
