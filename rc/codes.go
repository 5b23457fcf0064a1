// Package rc is the closed catalog of Groonga return codes.
//
// A Code is itself an error, so callers can test for a specific failure
// through any wrapping:
//
//	if errors.Is(err, rc.SyntaxError) { ... }
package rc

import "fmt"

// Code is a Groonga return code. Zero is success, 1 is end of data and
// every negative value is a failure.
type Code int

const (
	Success   Code = 0
	EndOfData Code = 1
)

// Failure codes, numbered downward from -1 in server order.
const (
	UnknownError Code = -(iota + 1)
	OperationNotPermitted
	NoSuchFileOrDirectory
	NoSuchProcess
	InterruptedFunctionCall
	InputOutputError
	NoSuchDeviceOrAddress
	ArgListTooLong
	ExecFormatError
	BadFileDescriptor
	NoChildProcesses
	ResourceTemporarilyUnavailable
	NotEnoughSpace
	PermissionDenied
	BadAddress
	ResourceBusy
	FileExists
	ImproperLink
	NoSuchDevice
	NotADirectory
	IsADirectory
	InvalidArgument
	TooManyOpenFilesInSystem
	TooManyOpenFiles
	InappropriateIOControlOperation
	FileTooLarge
	NoSpaceLeftOnDevice
	InvalidSeek
	ReadOnlyFileSystem
	TooManyLinks
	BrokenPipe
	DomainError
	ResultTooLarge
	ResourceDeadlockAvoided
	NoMemoryAvailable
	FilenameTooLong
	NoLocksAvailable
	FunctionNotImplemented
	DirectoryNotEmpty
	IllegalByteSequence
	SocketNotInitialized
	OperationWouldBlock
	AddressIsNotAvailable
	NetworkIsDown
	NoBuffer
	SocketIsAlreadyConnected
	SocketIsNotConnected
	SocketIsAlreadyShutdowned
	OperationTimeout
	ConnectionRefused
	RangeError
	TokenizerError
	FileCorrupt
	InvalidFormat
	ObjectCorrupt
	TooManySymbolicLinks
	NotSocket
	OperationNotSupported
	AddressIsInUse
	ZlibError
	LzoError
	StackOverFlow
	SyntaxError
	RetryMax
	IncompatibleFileFormat
	UpdateNotAllowed
	TooSmallOffset
	TooLargeOffset
	TooSmallLimit
	CasError
	UnsupportedCommandVersion
)

var messages = map[Code]string{
	Success:                         "success",
	EndOfData:                       "end of data",
	UnknownError:                    "unknown error",
	OperationNotPermitted:           "operation not permitted",
	NoSuchFileOrDirectory:           "no such file or directory",
	NoSuchProcess:                   "no such process",
	InterruptedFunctionCall:         "interrupted function call",
	InputOutputError:                "input output error",
	NoSuchDeviceOrAddress:           "no such device or address",
	ArgListTooLong:                  "arg list too long",
	ExecFormatError:                 "exec format error",
	BadFileDescriptor:               "bad file descriptor",
	NoChildProcesses:                "no child processes",
	ResourceTemporarilyUnavailable:  "resource temporarily unavailable",
	NotEnoughSpace:                  "not enough space",
	PermissionDenied:                "permission denied",
	BadAddress:                      "bad address",
	ResourceBusy:                    "resource busy",
	FileExists:                      "file exists",
	ImproperLink:                    "improper link",
	NoSuchDevice:                    "no such device",
	NotADirectory:                   "not a directory",
	IsADirectory:                    "is a directory",
	InvalidArgument:                 "invalid argument",
	TooManyOpenFilesInSystem:        "too many open files in system",
	TooManyOpenFiles:                "too many open files",
	InappropriateIOControlOperation: "inappropriate i o control operation",
	FileTooLarge:                    "file too large",
	NoSpaceLeftOnDevice:             "no space left on device",
	InvalidSeek:                     "invalid seek",
	ReadOnlyFileSystem:              "read only file system",
	TooManyLinks:                    "too many links",
	BrokenPipe:                      "broken pipe",
	DomainError:                     "domain error",
	ResultTooLarge:                  "result too large",
	ResourceDeadlockAvoided:         "resource deadlock avoided",
	NoMemoryAvailable:               "no memory available",
	FilenameTooLong:                 "filename too long",
	NoLocksAvailable:                "no locks available",
	FunctionNotImplemented:          "function not implemented",
	DirectoryNotEmpty:               "directory not empty",
	IllegalByteSequence:             "illegal byte sequence",
	SocketNotInitialized:            "socket not initialized",
	OperationWouldBlock:             "operation would block",
	AddressIsNotAvailable:           "address is not available",
	NetworkIsDown:                   "network is down",
	NoBuffer:                        "no buffer",
	SocketIsAlreadyConnected:        "socket is already connected",
	SocketIsNotConnected:            "socket is not connected",
	SocketIsAlreadyShutdowned:       "socket is already shutdowned",
	OperationTimeout:                "operation timeout",
	ConnectionRefused:               "connection refused",
	RangeError:                      "range error",
	TokenizerError:                  "tokenizer error",
	FileCorrupt:                     "file corrupt",
	InvalidFormat:                   "invalid format",
	ObjectCorrupt:                   "object corrupt",
	TooManySymbolicLinks:            "too many symbolic links",
	NotSocket:                       "not socket",
	OperationNotSupported:           "operation not supported",
	AddressIsInUse:                  "address is in use",
	ZlibError:                       "zlib error",
	LzoError:                        "lzo error",
	StackOverFlow:                   "stack over flow",
	SyntaxError:                     "syntax error",
	RetryMax:                        "retry max",
	IncompatibleFileFormat:          "incompatible file format",
	UpdateNotAllowed:                "update not allowed",
	TooSmallOffset:                  "too small offset",
	TooLargeOffset:                  "too large offset",
	TooSmallLimit:                   "too small limit",
	CasError:                        "cas error",
	UnsupportedCommandVersion:       "unsupported command version",
}

var names = map[Code]string{
	Success:                         "SUCCESS",
	EndOfData:                       "END_OF_DATA",
	UnknownError:                    "UNKNOWN_ERROR",
	OperationNotPermitted:           "OPERATION_NOT_PERMITTED",
	NoSuchFileOrDirectory:           "NO_SUCH_FILE_OR_DIRECTORY",
	NoSuchProcess:                   "NO_SUCH_PROCESS",
	InterruptedFunctionCall:         "INTERRUPTED_FUNCTION_CALL",
	InputOutputError:                "INPUT_OUTPUT_ERROR",
	NoSuchDeviceOrAddress:           "NO_SUCH_DEVICE_OR_ADDRESS",
	ArgListTooLong:                  "ARG_LIST_TOO_LONG",
	ExecFormatError:                 "EXEC_FORMAT_ERROR",
	BadFileDescriptor:               "BAD_FILE_DESCRIPTOR",
	NoChildProcesses:                "NO_CHILD_PROCESSES",
	ResourceTemporarilyUnavailable:  "RESOURCE_TEMPORARILY_UNAVAILABLE",
	NotEnoughSpace:                  "NOT_ENOUGH_SPACE",
	PermissionDenied:                "PERMISSION_DENIED",
	BadAddress:                      "BAD_ADDRESS",
	ResourceBusy:                    "RESOURCE_BUSY",
	FileExists:                      "FILE_EXISTS",
	ImproperLink:                    "IMPROPER_LINK",
	NoSuchDevice:                    "NO_SUCH_DEVICE",
	NotADirectory:                   "NOT_A_DIRECTORY",
	IsADirectory:                    "IS_A_DIRECTORY",
	InvalidArgument:                 "INVALID_ARGUMENT",
	TooManyOpenFilesInSystem:        "TOO_MANY_OPEN_FILES_IN_SYSTEM",
	TooManyOpenFiles:                "TOO_MANY_OPEN_FILES",
	InappropriateIOControlOperation: "INAPPROPRIATE_I_O_CONTROL_OPERATION",
	FileTooLarge:                    "FILE_TOO_LARGE",
	NoSpaceLeftOnDevice:             "NO_SPACE_LEFT_ON_DEVICE",
	InvalidSeek:                     "INVALID_SEEK",
	ReadOnlyFileSystem:              "READ_ONLY_FILE_SYSTEM",
	TooManyLinks:                    "TOO_MANY_LINKS",
	BrokenPipe:                      "BROKEN_PIPE",
	DomainError:                     "DOMAIN_ERROR",
	ResultTooLarge:                  "RESULT_TOO_LARGE",
	ResourceDeadlockAvoided:         "RESOURCE_DEADLOCK_AVOIDED",
	NoMemoryAvailable:               "NO_MEMORY_AVAILABLE",
	FilenameTooLong:                 "FILENAME_TOO_LONG",
	NoLocksAvailable:                "NO_LOCKS_AVAILABLE",
	FunctionNotImplemented:          "FUNCTION_NOT_IMPLEMENTED",
	DirectoryNotEmpty:               "DIRECTORY_NOT_EMPTY",
	IllegalByteSequence:             "ILLEGAL_BYTE_SEQUENCE",
	SocketNotInitialized:            "SOCKET_NOT_INITIALIZED",
	OperationWouldBlock:             "OPERATION_WOULD_BLOCK",
	AddressIsNotAvailable:           "ADDRESS_IS_NOT_AVAILABLE",
	NetworkIsDown:                   "NETWORK_IS_DOWN",
	NoBuffer:                        "NO_BUFFER",
	SocketIsAlreadyConnected:        "SOCKET_IS_ALREADY_CONNECTED",
	SocketIsNotConnected:            "SOCKET_IS_NOT_CONNECTED",
	SocketIsAlreadyShutdowned:       "SOCKET_IS_ALREADY_SHUTDOWNED",
	OperationTimeout:                "OPERATION_TIMEOUT",
	ConnectionRefused:               "CONNECTION_REFUSED",
	RangeError:                      "RANGE_ERROR",
	TokenizerError:                  "TOKENIZER_ERROR",
	FileCorrupt:                     "FILE_CORRUPT",
	InvalidFormat:                   "INVALID_FORMAT",
	ObjectCorrupt:                   "OBJECT_CORRUPT",
	TooManySymbolicLinks:            "TOO_MANY_SYMBOLIC_LINKS",
	NotSocket:                       "NOT_SOCKET",
	OperationNotSupported:           "OPERATION_NOT_SUPPORTED",
	AddressIsInUse:                  "ADDRESS_IS_IN_USE",
	ZlibError:                       "ZLIB_ERROR",
	LzoError:                        "LZO_ERROR",
	StackOverFlow:                   "STACK_OVER_FLOW",
	SyntaxError:                     "SYNTAX_ERROR",
	RetryMax:                        "RETRY_MAX",
	IncompatibleFileFormat:          "INCOMPATIBLE_FILE_FORMAT",
	UpdateNotAllowed:                "UPDATE_NOT_ALLOWED",
	TooSmallOffset:                  "TOO_SMALL_OFFSET",
	TooLargeOffset:                  "TOO_LARGE_OFFSET",
	TooSmallLimit:                   "TOO_SMALL_LIMIT",
	CasError:                        "CAS_ERROR",
	UnsupportedCommandVersion:       "UNSUPPORTED_COMMAND_VERSION",
}

// Known reports whether c belongs to the catalog.
func (c Code) Known() bool {
	_, ok := messages[c]
	return ok
}

// Name returns the upper-case server name, e.g. SYNTAX_ERROR.
func (c Code) Name() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("RC_%d", int(c))
}

// String returns the human-readable message, e.g. "syntax error".
func (c Code) String() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return fmt.Sprintf("unknown return code %d", int(c))
}

// Error implements error.
func (c Code) Error() string {
	return c.String()
}

// IsFailure reports whether c signals an error.
func (c Code) IsFailure() bool {
	return c < Success
}
