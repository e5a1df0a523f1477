package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Account errors
var (
	ErrAccountNameNotUnique = errors.New("the account name must be unique")
	ErrAccountCurrency      = errors.New("the account currency must be a valid ISO 4217 code")
)

// Card errors
var (
	ErrCardNameNotUnique = errors.New("the card name must be unique")
	ErrCardCycleDay      = errors.New("closing day and due day must be between 1 and 31")
)

// Transaction errors
var (
	ErrTransactionOwner            = errors.New("a transaction must reference either an account or a card, not both")
	ErrTransactionInstallmentRange = errors.New("the installment index must be between 1 and the installment count")
	ErrTransactionNoInstallments   = errors.New("installment fields are only allowed on installment transactions")
)

// Series errors
var (
	ErrCommitmentCount  = errors.New("the installment count must be between 1 and 60")
	ErrCommitmentAmount = errors.New("the commitment amount must not be zero")
	ErrCommitmentMethod = errors.New("card commitments require a card payment method")
)

// Anticipation errors
var (
	ErrAnticipationEmpty        = errors.New("an anticipation needs at least one installment")
	ErrAnticipationSeries       = errors.New("all anticipated installments must belong to the series")
	ErrAnticipationSettled      = errors.New("settled installments can not be anticipated")
	ErrAnticipationAbsorbed     = errors.New("the installment is already part of another anticipation")
	ErrAnticipationPeriod       = errors.New("the anticipation period must not be earlier than the earliest anticipated installment")
	ErrAnticipationNotCancelable = errors.New("an anticipation can only be cancelled while its payment is pending")
)

// Invoice errors
var (
	ErrInvoiceMonthNotUnique = errors.New("there is already an invoice for this card and month")
	ErrInvoiceNoPayment      = errors.New("there is no invoice payment to reverse")
)
